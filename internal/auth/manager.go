// Package auth owns the client-side session lifecycle: login, logout, silent
// token refresh, and profile updates, with the session state kept behind a
// single serialized transition path.
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/ruta66/motoclub/internal/apiclient"
	"github.com/ruta66/motoclub/internal/domain"
	"github.com/ruta66/motoclub/internal/tokenstore"
)

// ErrSuperseded is returned by Login when its response arrived after a newer
// transition (for example a logout) replaced the session. The late result is
// discarded.
var ErrSuperseded = errors.New("login superseded by a newer session transition")

const (
	msgLoginFallback  = "Error al iniciar sesión"
	msgUpdateFallback = "Error updating user"
)

// AuthError carries the user-facing message for a failed auth operation while
// keeping the underlying cause unwrappable.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// Listener observes session transitions. Listeners run synchronously on the
// goroutine applying the transition and must not call back into the Manager;
// slow work belongs on another goroutine.
type Listener func(Session)

// Manager is the single source of truth for "is a user authenticated, and
// who". It owns the Session exclusively: everything else reads snapshots and
// dispatches through the exported operations.
//
// All transitions apply under one mutex. A generation counter tracks session
// identity: operations snapshot it before their network call and discard their
// result if it changed while the call was in flight, so a slow response can
// never resurrect a session that was replaced or torn down in the meantime.
type Manager struct {
	api   *apiclient.Client
	store tokenstore.Store
	log   zerolog.Logger

	mu        sync.Mutex
	state     Session
	gen       uint64
	listeners []Listener

	initOnce sync.Once
}

func NewManager(api *apiclient.Client, store tokenstore.Store, log zerolog.Logger) *Manager {
	return &Manager{
		api:   api,
		store: store,
		log:   log,
		state: initialSession(),
	}
}

// State returns a snapshot of the current session.
func (m *Manager) State() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// OnChange registers a listener for session transitions.
func (m *Manager) OnChange(fn Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Initialize restores the session from storage. It runs its work exactly once
// per process lifetime; later calls are no-ops. A stored session is restored
// only when the access token still parses as unexpired and a cached user
// exists; anything else is cleared.
func (m *Manager) Initialize() {
	m.initOnce.Do(func() {
		creds := m.store.Load()

		m.mu.Lock()
		defer m.mu.Unlock()

		if creds.Access != "" && creds.User != nil && IsTokenValid(creds.Access) {
			m.applyLocked(authSuccess{user: creds.User, access: creds.Access, refresh: creds.Refresh})
			return
		}

		m.store.Clear()
		m.applyLocked(authLogout{})
	})
}

// Login exchanges credentials for a session. On failure the parsed backend
// message is recorded in Session.Error and the error is also returned, so a
// caller can react independently of the state-driven error display.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	gen := m.gen
	m.applyLocked(authLoading{})
	m.mu.Unlock()

	resp, err := m.api.Login(ctx, email, password)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		// Logged out (or re-authenticated) while this attempt was in flight.
		return ErrSuperseded
	}

	if err != nil {
		msg := msgLoginFallback
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.UserMessage(msgLoginFallback)
		}
		m.applyLocked(authFailed{message: msg})
		return &AuthError{Message: msg, Err: err}
	}

	user := resp.User
	m.store.Save(&user, resp.Access, resp.Refresh)
	m.gen++
	m.applyLocked(authSuccess{user: &user, access: resp.Access, refresh: resp.Refresh})
	return nil
}

// Logout clears storage and resets the session. Safe to call in any state.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Clear()
	m.gen++
	m.applyLocked(authLogout{})
}

// RefreshToken mints a new access token using the held refresh token. It
// returns "" when no refresh token is held or the refresh failed; failure
// tears the session down entirely, which is the only recovery path for an
// expired access token. The attempt is never retried.
func (m *Manager) RefreshToken(ctx context.Context) string {
	m.mu.Lock()
	refresh := m.state.RefreshToken
	gen := m.gen
	m.mu.Unlock()

	if refresh == "" {
		return ""
	}

	access, err := m.api.RefreshAccess(ctx, refresh)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		return ""
	}

	if err != nil {
		m.log.Warn().Err(err).Msg("token refresh failed, clearing session")
		m.store.Clear()
		m.gen++
		m.applyLocked(authLogout{})
		return ""
	}

	// Only the access token rotates; refresh token and user stay as they are.
	m.store.Save(m.state.User, access, refresh)
	m.applyLocked(tokenRefreshed{access: access})
	return access
}

// ClearError resets the error field, leaving the rest of the session alone.
func (m *Manager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyLocked(errorCleared{})
}

// UpdateUser applies a partial profile update. It returns the updated user, or
// nil when no access token is held or the request failed; failures are
// recorded in Session.Error and the session stays authenticated with the
// previous user.
func (m *Manager) UpdateUser(ctx context.Context, patch domain.UserPatch) *domain.User {
	m.mu.Lock()
	if m.state.AccessToken == "" {
		m.mu.Unlock()
		return nil
	}
	gen := m.gen
	m.mu.Unlock()

	user, err := m.api.UpdateMe(ctx, patch)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		return nil
	}

	if err != nil {
		msg := msgUpdateFallback
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.UserMessage(msgLoginFallback)
		}
		m.applyLocked(profileError{message: msg})
		return nil
	}

	m.store.Save(user, m.state.AccessToken, m.state.RefreshToken)
	m.applyLocked(userUpdated{user: user})
	return user
}

// AccessToken implements apiclient.CredentialSource.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.AccessToken
}

// Refresh implements apiclient.CredentialSource.
func (m *Manager) Refresh(ctx context.Context) (string, bool) {
	token := m.RefreshToken(ctx)
	return token, token != ""
}

// applyLocked folds one action into the state and notifies listeners with the
// resulting snapshot. Callers hold m.mu.
func (m *Manager) applyLocked(a action) {
	m.state = reduce(m.state, a)
	snap := m.snapshotLocked()
	for _, fn := range m.listeners {
		fn(snap)
	}
}

func (m *Manager) snapshotLocked() Session {
	s := m.state
	if s.User != nil {
		user := *s.User
		s.User = &user
	}
	return s
}
