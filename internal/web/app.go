// Package web is the server-rendered front-end over the community backend.
// It contains no business logic: every page reads through the session manager,
// the dashboard aggregator, or the API client of the visitor's session.
package web

import (
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/rs/zerolog"
	"github.com/ruta66/motoclub/internal/config"
)

type App struct {
	cfg      *config.Config
	log      zerolog.Logger
	hub      *Hub
	sessions *Registry
	tmpl     *template.Template
}

func NewApp(cfg *config.Config, log zerolog.Logger) (*App, error) {
	tmpl, err := newTemplates()
	if err != nil {
		return nil, err
	}

	hub := NewHub(log)
	return &App{
		cfg:      cfg,
		log:      log,
		hub:      hub,
		sessions: NewRegistry(cfg, hub, log),
		tmpl:     tmpl,
	}, nil
}

// Run keeps background maintenance (session pruning) going until ctx is done.
func (a *App) Run(ctx context.Context) {
	a.sessions.Run(ctx)
}

func (a *App) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(a.withSession)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// The websocket handshake cannot carry a CSRF token; register it outside
	// the protected group.
	r.Get("/ws", a.handleWS)

	r.Group(func(r chi.Router) {
		if a.cfg.CSRFKey != "" {
			r.Use(csrf.Protect(
				[]byte(a.cfg.CSRFKey),
				csrf.Secure(!a.cfg.IsDevelopment()),
				csrf.Path("/"),
			))
		}

		r.Get("/", a.handleHome)

		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", a.handleLoginPage)
			r.Post("/login", a.handleLoginSubmit)
			r.Get("/register", a.handleRegisterPage)
			r.Post("/register", a.handleRegisterSubmit)
		})
		r.Post("/logout", a.handleLogout)

		r.Get("/clubs", a.handleClubs)
		r.Get("/clubs/{id}", a.handleClubDetail)
		r.Get("/events", a.handleEvents)
		r.Get("/map", a.handleMapPage)
		r.Get("/map/data.json", a.handleMapData)
		r.Get("/chapters/{id}", a.handleChapterDetail)

		// Authenticated pages
		r.Group(func(r chi.Router) {
			r.Use(a.requireAuth)

			r.Get("/dashboard", a.handleDashboard)
			r.Get("/clubs/create", a.handleClubCreatePage)
			r.Post("/clubs/create", a.handleClubCreateSubmit)
			r.Get("/clubs/{id}/chapters/create", a.handleChapterCreatePage)
			r.Post("/clubs/{id}/chapters/create", a.handleChapterCreateSubmit)
			r.Get("/chapters/{id}/members/create", a.handleMemberCreatePage)
			r.Post("/chapters/{id}/members/create", a.handleMemberCreateSubmit)
			r.Get("/profile", a.handleProfilePage)
			r.Post("/profile", a.handleProfileSubmit)
		})
	})

	return r
}

type ctxKey string

const sessionCtxKey ctxKey = "browserSession"

func (a *App) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bs := a.sessions.Get(w, r)
		ctx := context.WithValue(r.Context(), sessionCtxKey, bs)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *browserSession {
	bs, _ := r.Context().Value(sessionCtxKey).(*browserSession)
	return bs
}

func (a *App) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bs := sessionFrom(r)
		if bs == nil || !bs.auth.State().IsAuthenticated {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
