package events_test

import (
	"testing"

	"github.com/ruta66/motoclub/internal/events"
	"github.com/stretchr/testify/assert"
)

func TestBusFanout(t *testing.T) {
	bus := events.NewBus()

	var first, second []events.Kind
	bus.Subscribe(func(e events.Event) { first = append(first, e.Kind) })
	bus.Subscribe(func(e events.Event) { second = append(second, e.Kind) })

	bus.Publish(events.Event{Kind: events.ClubCreated})
	bus.Publish(events.Event{Kind: events.MemberCreated})

	assert.Equal(t, []events.Kind{events.ClubCreated, events.MemberCreated}, first)
	assert.Equal(t, []events.Kind{events.ClubCreated, events.MemberCreated}, second)
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := events.NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(events.Event{Kind: events.ProfileUpdated})
	})
}

func TestBusSubscribeDuringPublish(t *testing.T) {
	bus := events.NewBus()

	called := false
	bus.Subscribe(func(events.Event) {
		// Subscribing from inside a handler must not deadlock.
		bus.Subscribe(func(events.Event) {})
		called = true
	})

	bus.Publish(events.Event{Kind: events.ChapterCreated})
	assert.True(t, called)
}
