// Package testutil provides a scripted stand-in for the community backend plus
// token and fixture helpers shared by the package tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// RecordedRequest is one request the fake backend received.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          []byte
}

// Backend is an httptest server with scripted responses per method+path. Every
// request is recorded so tests can assert on what the client actually sent.
type Backend struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest
}

func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		t:        t,
		handlers: make(map[string]http.HandlerFunc),
	}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *Backend) URL() string {
	return b.srv.URL
}

// Handle scripts a response for method+path (path without query string).
// Re-registering replaces the previous handler.
func (b *Backend) Handle(method, path string, fn http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[method+" "+path] = fn
}

// HandleJSON scripts a fixed JSON response.
func (b *Backend) HandleJSON(method, path string, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		b.t.Fatalf("marshal scripted response for %s %s: %v", method, path, err)
	}

	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(payload)
	})
}

// HandleRaw scripts a fixed response with an arbitrary body, for non-JSON
// error shapes.
func (b *Backend) HandleRaw(method, path string, status int, body string) {
	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})
	fn, ok := b.handlers[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	fn(w, r)
}

// Requests returns a copy of everything received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// RequestCount counts received requests matching method+path.
func (b *Backend) RequestCount(method, path string) int {
	count := 0
	for _, req := range b.Requests() {
		if req.Method == method && req.Path == path {
			count++
		}
	}
	return count
}

// WriteJSON writes v as a JSON response body, for handlers scripted inline.
func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Logger returns a silenced logger for constructing clients under test.
func Logger() zerolog.Logger {
	return zerolog.Nop()
}
