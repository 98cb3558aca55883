// Package events carries "data changed" signals between otherwise unrelated
// parts of the client. Mutation flows publish; caches subscribe and refetch.
package events

import "sync"

type Kind string

const (
	ClubCreated    Kind = "club_created"
	ChapterCreated Kind = "chapter_created"
	MemberCreated  Kind = "member_created"
	ProfileUpdated Kind = "profile_updated"
)

type Event struct {
	Kind Kind
}

type Handler func(Event)

// Bus is an in-process fanout. Publish invokes handlers synchronously in
// subscription order; handlers that do slow work must hand it off themselves.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
