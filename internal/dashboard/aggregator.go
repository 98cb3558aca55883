// Package dashboard maintains the cached, session-scoped overview aggregate.
package dashboard

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/ruta66/motoclub/internal/apiclient"
	"github.com/ruta66/motoclub/internal/auth"
	"github.com/ruta66/motoclub/internal/domain"
	"github.com/ruta66/motoclub/internal/events"
)

const msgDashboardFallback = "Error al cargar el dashboard"

// Aggregator caches the dashboard overview for the current session. The cache
// exists only while the session is authenticated: it is discarded synchronously
// on the logout transition, before the logout call returns. A failed fetch
// keeps whatever overview was already cached (stale beats empty).
type Aggregator struct {
	api     *apiclient.Client
	session *auth.Manager
	ttl     time.Duration
	log     zerolog.Logger

	mu          sync.Mutex
	overview    *domain.DashboardOverview
	lastFetched time.Time
	loading     bool
	errMsg      string
	// epoch tracks cache identity; a fetch started before an invalidation
	// must not write its result afterwards.
	epoch uint64
	// authed remembers the previous session state so the automatic fetch
	// fires only on the transition into authenticated.
	authed bool
}

// New wires the aggregator to the session (invalidation and auto-fetch) and,
// when bus is non-nil, to data-changed signals from mutation flows.
func New(api *apiclient.Client, session *auth.Manager, bus *events.Bus, ttl time.Duration, log zerolog.Logger) *Aggregator {
	a := &Aggregator{
		api:     api,
		session: session,
		ttl:     ttl,
		log:     log,
	}

	session.OnChange(a.onSessionChange)
	if bus != nil {
		bus.Subscribe(func(events.Event) {
			go a.Refresh(context.Background())
		})
	}
	return a
}

func (a *Aggregator) onSessionChange(s auth.Session) {
	a.mu.Lock()

	if !s.IsAuthenticated {
		a.authed = false
		a.clearLocked()
		a.mu.Unlock()
		return
	}

	becameAuthed := !a.authed
	a.authed = true
	needsFetch := becameAuthed && a.overview == nil && !a.loading
	a.mu.Unlock()

	if needsFetch {
		go a.Fetch(context.Background())
	}
}

func (a *Aggregator) clearLocked() {
	a.overview = nil
	a.lastFetched = time.Time{}
	a.loading = false
	a.errMsg = ""
	a.epoch++
}

// Fetch retrieves the overview. It is a no-op when the session is not
// authenticated, and a failed request leaves any previously cached overview in
// place.
func (a *Aggregator) Fetch(ctx context.Context) {
	if !a.sessionReady() {
		return
	}

	a.mu.Lock()
	epoch := a.beginFetchLocked()
	a.mu.Unlock()

	a.fetch(ctx, epoch)
}

// Refresh unconditionally re-runs Fetch. Mutation flows that change club,
// chapter, or member data end up here via the event bus.
func (a *Aggregator) Refresh(ctx context.Context) {
	a.Fetch(ctx)
}

// Ensure fetches when nothing is cached yet or the cache window has elapsed.
// Views call this on render instead of fetching unconditionally. The loading
// flag is claimed inside the freshness check, so concurrent Ensure calls never
// issue duplicate requests.
func (a *Aggregator) Ensure(ctx context.Context) {
	if !a.sessionReady() {
		return
	}

	a.mu.Lock()
	fresh := a.overview != nil && time.Since(a.lastFetched) < a.ttl
	if fresh || a.loading {
		a.mu.Unlock()
		return
	}
	epoch := a.beginFetchLocked()
	a.mu.Unlock()

	a.fetch(ctx, epoch)
}

func (a *Aggregator) sessionReady() bool {
	s := a.session.State()
	return s.IsAuthenticated && s.AccessToken != ""
}

func (a *Aggregator) beginFetchLocked() uint64 {
	a.loading = true
	a.errMsg = ""
	return a.epoch
}

func (a *Aggregator) fetch(ctx context.Context, epoch uint64) {
	overview, err := a.api.DashboardOverview(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.epoch != epoch {
		// Invalidated while the request was in flight.
		return
	}
	a.loading = false

	if err != nil {
		msg := msgDashboardFallback
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.UserMessage(msgDashboardFallback)
		}
		a.errMsg = msg
		a.log.Error().Err(err).Msg("dashboard fetch failed")
		return
	}

	a.overview = overview
	a.lastFetched = time.Now()
}

// Overview returns the cached aggregate, or nil when none exists. The result
// is shared and must be treated as read-only.
func (a *Aggregator) Overview() *domain.DashboardOverview {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overview
}

func (a *Aggregator) IsLoading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

func (a *Aggregator) Error() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.errMsg
}

func (a *Aggregator) ClearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errMsg = ""
}

// IsMemberOfClub reports whether the cached overview shows the user in the
// given club. IDs may arrive as numbers or numeric strings (route parameters).
func (a *Aggregator) IsMemberOfClub(clubID any) bool {
	id, ok := coerceID(clubID)
	if !ok {
		return false
	}

	overview := a.Overview()
	if overview == nil {
		return false
	}
	for _, club := range overview.MyClubs {
		if club.ID == id {
			return true
		}
	}
	return false
}

// IsMemberOfChapter reports whether the cached overview shows the user in the
// given chapter.
func (a *Aggregator) IsMemberOfChapter(chapterID any) bool {
	id, ok := coerceID(chapterID)
	if !ok {
		return false
	}

	overview := a.Overview()
	if overview == nil {
		return false
	}
	for _, chapter := range overview.MyChapters {
		if chapter.ID == id {
			return true
		}
	}
	return false
}

// RoleInChapter returns the user's role in the given chapter, or "" when the
// overview shows no membership there.
func (a *Aggregator) RoleInChapter(chapterID any) string {
	id, ok := coerceID(chapterID)
	if !ok {
		return ""
	}

	overview := a.Overview()
	if overview == nil {
		return ""
	}
	for _, membership := range overview.MyMemberships {
		if membership.Chapter == id {
			return membership.Role
		}
	}
	return ""
}

func coerceID(v any) (int64, bool) {
	switch id := v.(type) {
	case int64:
		return id, true
	case int:
		return int64(id), true
	case float64:
		return int64(id), true
	case string:
		parsed, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}
