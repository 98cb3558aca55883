package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 10 * time.Second

type wsMessage struct {
	Type string `json:"type"`
}

// wsConn serializes writes to one connection. gorilla/websocket allows at most
// one concurrent writer, and Notify runs from several goroutines.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) write(event string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(wsMessage{Type: event})
}

// Hub pushes change notifications to the pages a visitor has open, keyed by
// browser session. The browser reacts by refetching; no payload travels over
// the socket beyond the event name.
type Hub struct {
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu    sync.Mutex
	conns map[string]map[*wsConn]bool
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log:   log,
		conns: make(map[string]map[*wsConn]bool),
	}
}

// Handle upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) Handle(sessionID string, w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	wc := &wsConn{conn: conn}

	h.mu.Lock()
	if h.conns[sessionID] == nil {
		h.conns[sessionID] = make(map[*wsConn]bool)
	}
	h.conns[sessionID][wc] = true
	h.mu.Unlock()

	// Read pump: the client sends nothing meaningful, but reading is what
	// detects the close.
	go func() {
		defer h.remove(sessionID, wc)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Notify sends an event to every page of the given browser session. Safe to
// call from any number of goroutines.
func (h *Hub) Notify(sessionID, event string) {
	h.mu.Lock()
	conns := make([]*wsConn, 0, len(h.conns[sessionID]))
	for wc := range h.conns[sessionID] {
		conns = append(conns, wc)
	}
	h.mu.Unlock()

	for _, wc := range conns {
		if err := wc.write(event); err != nil {
			h.remove(sessionID, wc)
		}
	}
}

// Drop closes every connection of a browser session.
func (h *Hub) Drop(sessionID string) {
	h.mu.Lock()
	conns := h.conns[sessionID]
	delete(h.conns, sessionID)
	h.mu.Unlock()

	for wc := range conns {
		wc.conn.Close()
	}
}

func (h *Hub) remove(sessionID string, wc *wsConn) {
	h.mu.Lock()
	if set, ok := h.conns[sessionID]; ok {
		delete(set, wc)
		if len(set) == 0 {
			delete(h.conns, sessionID)
		}
	}
	h.mu.Unlock()
	wc.conn.Close()
}
