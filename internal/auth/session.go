package auth

import "github.com/ruta66/motoclub/internal/domain"

// Session is the client's authentication state. IsAuthenticated implies User
// and AccessToken are set. The zero value is not the startup state; sessions
// begin in the loading state until Initialize has read storage.
type Session struct {
	IsAuthenticated bool
	IsLoading       bool
	User            *domain.User
	AccessToken     string
	RefreshToken    string
	Error           string
}

func initialSession() Session {
	return Session{IsLoading: true}
}

// Session transitions are expressed as a closed set of actions folded through
// reduce. All mutation funnels through this one function, so a transition
// always replaces the relevant sub-state wholesale and never merges fields by
// accident.
type action interface {
	isAction()
}

type (
	// authLoading marks the start of a login attempt.
	authLoading struct{}
	// authSuccess replaces the session with an authenticated one.
	authSuccess struct {
		user    *domain.User
		access  string
		refresh string
	}
	// authFailed clears the session and records why.
	authFailed struct{ message string }
	// authLogout resets to the empty unauthenticated shape.
	authLogout struct{}
	// userUpdated patches only the user in place.
	userUpdated struct{ user *domain.User }
	// profileError records an error without touching the authenticated state.
	profileError struct{ message string }
	// tokenRefreshed swaps only the access token.
	tokenRefreshed struct{ access string }
	// errorCleared resets the error field.
	errorCleared struct{}
)

func (authLoading) isAction()    {}
func (authSuccess) isAction()    {}
func (authFailed) isAction()     {}
func (authLogout) isAction()     {}
func (userUpdated) isAction()    {}
func (profileError) isAction()   {}
func (tokenRefreshed) isAction() {}
func (errorCleared) isAction()   {}

func reduce(s Session, a action) Session {
	switch a := a.(type) {
	case authLoading:
		s.IsLoading = true
		s.Error = ""
		return s

	case authSuccess:
		return Session{
			IsAuthenticated: true,
			User:            a.user,
			AccessToken:     a.access,
			RefreshToken:    a.refresh,
		}

	case authFailed:
		return Session{Error: a.message}

	case authLogout:
		return Session{}

	case userUpdated:
		s.User = a.user
		return s

	case profileError:
		s.Error = a.message
		return s

	case tokenRefreshed:
		s.AccessToken = a.access
		return s

	case errorCleared:
		s.Error = ""
		return s
	}
	return s
}
