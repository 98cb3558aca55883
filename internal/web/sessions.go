package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/ruta66/motoclub/internal/apiclient"
	"github.com/ruta66/motoclub/internal/auth"
	"github.com/ruta66/motoclub/internal/config"
	"github.com/ruta66/motoclub/internal/dashboard"
	"github.com/ruta66/motoclub/internal/events"
	"github.com/ruta66/motoclub/internal/tokenstore"
)

const sessionCookie = "motoclub_session"

// browserSession is one visitor's slice of the client: their own API client,
// session manager, event bus, and dashboard cache, composed at creation and
// injected into handlers. Tokens live in process memory only; closing the
// browser session forgets them.
type browserSession struct {
	id       string
	api      *apiclient.Client
	auth     *auth.Manager
	dash     *dashboard.Aggregator
	bus      *events.Bus
	lastSeen time.Time
}

// Registry tracks browser sessions by cookie and prunes idle ones.
type Registry struct {
	cfg *config.Config
	hub *Hub
	log zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*browserSession
}

func NewRegistry(cfg *config.Config, hub *Hub, log zerolog.Logger) *Registry {
	return &Registry{
		cfg:      cfg,
		hub:      hub,
		log:      log,
		sessions: make(map[string]*browserSession),
	}
}

// Get returns the visitor's session, creating one (and setting the cookie)
// when none exists yet. Lookup and create run under one critical section keyed
// by the cookie value, so concurrent requests carrying the same cookie always
// converge on a single session.
func (r *Registry) Get(w http.ResponseWriter, req *http.Request) *browserSession {
	id := ""
	if cookie, err := req.Cookie(sessionCookie); err == nil {
		// Cookie values are our own UUIDs; anything else is treated as absent.
		if parsed, err := uuid.Parse(cookie.Value); err == nil {
			id = parsed.String()
		}
	}

	r.mu.Lock()
	if id != "" {
		if bs, ok := r.sessions[id]; ok {
			bs.lastSeen = time.Now()
			r.mu.Unlock()
			return bs
		}
	} else {
		id = uuid.New().String()
	}
	bs := r.newSession(id)
	r.sessions[id] = bs
	r.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    bs.id,
		Path:     "/",
		HttpOnly: true,
		Secure:   !r.cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
	return bs
}

func (r *Registry) newSession(id string) *browserSession {
	log := r.log.With().Str("session", id[:8]).Logger()

	api := apiclient.New(r.cfg.APIBaseURL, r.cfg.HTTPTimeout, log)
	bus := events.NewBus()
	api.SetEvents(bus)

	mgr := auth.NewManager(api, tokenstore.NewMemStore(), log)
	api.SetCredentials(mgr)
	mgr.Initialize()

	dash := dashboard.New(api, mgr, bus, r.cfg.DashboardCacheTTL, log)

	bs := &browserSession{
		id:       id,
		api:      api,
		auth:     mgr,
		dash:     dash,
		bus:      bus,
		lastSeen: time.Now(),
	}

	// Open pages learn about data and session changes over the websocket.
	bus.Subscribe(func(e events.Event) {
		r.hub.Notify(id, string(e.Kind))
	})
	mgr.OnChange(func(s auth.Session) {
		go r.hub.Notify(id, "session_changed")
	})

	return bs
}

// Run prunes idle sessions until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.prune(24 * time.Hour)
		}
	}
}

func (r *Registry) prune(maxIdle time.Duration) {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, bs := range r.sessions {
		if bs.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			r.hub.Drop(id)
		}
	}
}
