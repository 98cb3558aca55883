package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ruta66/motoclub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub, sessionID string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Handle(sessionID, w, r)
	}))
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.conns[sessionID]) == 1
	}, 2*time.Second, 10*time.Millisecond)

	return conn
}

func TestHubNotify(t *testing.T) {
	hub := NewHub(testutil.Logger())
	conn := dialHub(t, hub, "visitor")

	hub.Notify("visitor", "club_created")
	hub.Notify("other-visitor", "ignored")

	var msg wsMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "club_created", msg.Type)
}

// Session transitions notify from several goroutines at once; every write to a
// shared connection has to come through intact.
func TestHubNotifyConcurrent(t *testing.T) {
	const notifiers = 100

	hub := NewHub(testutil.Logger())
	conn := dialHub(t, hub, "visitor")

	received := make(chan string, notifiers)
	go func() {
		defer close(received)
		for {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			received <- msg.Type
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < notifiers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Notify("visitor", "session_changed")
		}()
	}
	wg.Wait()

	for i := 0; i < notifiers; i++ {
		select {
		case msg, ok := <-received:
			require.True(t, ok, "connection dropped after %d of %d messages", i, notifiers)
			assert.Equal(t, "session_changed", msg)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d messages", i, notifiers)
		}
	}

	// The connection survived; the hub still has it registered.
	hub.mu.Lock()
	defer hub.mu.Unlock()
	assert.Len(t, hub.conns["visitor"], 1)
}
