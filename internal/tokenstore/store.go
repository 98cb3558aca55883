// Package tokenstore persists the client's auth triple: access token, refresh
// token, and the cached user profile.
package tokenstore

import "github.com/ruta66/motoclub/internal/domain"

// Credentials is the persisted triple. Absent or unreadable fields come back as
// zero values; a load never fails.
type Credentials struct {
	Access  string
	Refresh string
	User    *domain.User
}

// Store is durable key-value storage behind the session. Implementations must
// treat an unavailable backing medium as a no-op, not an error: Load returns
// empty credentials, Save and Clear do nothing. Anything else that goes wrong
// is logged, never surfaced.
type Store interface {
	// Load returns whatever is persisted. A malformed stored user is treated
	// as absent.
	Load() Credentials
	// Save overwrites all three keys. Callers never observe a partial write.
	Save(user *domain.User, access, refresh string)
	// Clear removes all three keys.
	Clear()
}
