package auth

import (
	"testing"

	"github.com/ruta66/motoclub/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestReduce(t *testing.T) {
	user := &domain.User{ID: 42, Username: "rider42"}
	authed := Session{
		IsAuthenticated: true,
		User:            user,
		AccessToken:     "access",
		RefreshToken:    "refresh",
	}

	t.Run("loading clears a previous error", func(t *testing.T) {
		s := reduce(Session{Error: "boom"}, authLoading{})
		assert.True(t, s.IsLoading)
		assert.Empty(t, s.Error)
	})

	t.Run("success replaces the session wholesale", func(t *testing.T) {
		s := reduce(Session{IsLoading: true, Error: "old"}, authSuccess{user: user, access: "a", refresh: "r"})
		assert.True(t, s.IsAuthenticated)
		assert.False(t, s.IsLoading)
		assert.Equal(t, user, s.User)
		assert.Equal(t, "a", s.AccessToken)
		assert.Equal(t, "r", s.RefreshToken)
		assert.Empty(t, s.Error)
	})

	t.Run("failure clears tokens and user", func(t *testing.T) {
		s := reduce(authed, authFailed{message: "bad credentials"})
		assert.False(t, s.IsAuthenticated)
		assert.Nil(t, s.User)
		assert.Empty(t, s.AccessToken)
		assert.Empty(t, s.RefreshToken)
		assert.Equal(t, "bad credentials", s.Error)
	})

	t.Run("logout resets everything", func(t *testing.T) {
		assert.Equal(t, Session{}, reduce(authed, authLogout{}))
	})

	t.Run("user update keeps tokens", func(t *testing.T) {
		updated := &domain.User{ID: 42, Username: "renamed"}
		s := reduce(authed, userUpdated{user: updated})
		assert.True(t, s.IsAuthenticated)
		assert.Equal(t, updated, s.User)
		assert.Equal(t, "access", s.AccessToken)
	})

	t.Run("profile error keeps the session authenticated", func(t *testing.T) {
		s := reduce(authed, profileError{message: "update failed"})
		assert.True(t, s.IsAuthenticated)
		assert.Equal(t, user, s.User)
		assert.Equal(t, "update failed", s.Error)
	})

	t.Run("token refresh swaps only the access token", func(t *testing.T) {
		s := reduce(authed, tokenRefreshed{access: "fresh"})
		assert.Equal(t, "fresh", s.AccessToken)
		assert.Equal(t, "refresh", s.RefreshToken)
		assert.Equal(t, user, s.User)
	})

	t.Run("error clear leaves the rest alone", func(t *testing.T) {
		withErr := authed
		withErr.Error = "boom"
		s := reduce(withErr, errorCleared{})
		assert.Empty(t, s.Error)
		assert.True(t, s.IsAuthenticated)
	})
}
