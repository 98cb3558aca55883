package tokenstore

import (
	"sync"

	"github.com/ruta66/motoclub/internal/domain"
)

// MemStore holds credentials for the lifetime of the process. The web front-end
// gives each browser session its own MemStore.
type MemStore struct {
	mu    sync.Mutex
	creds Credentials
	set   bool
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load() Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return Credentials{}
	}
	creds := s.creds
	if creds.User != nil {
		user := *creds.User
		creds.User = &user
	}
	return creds
}

func (s *MemStore) Save(user *domain.User, access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var copied *domain.User
	if user != nil {
		u := *user
		copied = &u
	}
	s.creds = Credentials{Access: access, Refresh: refresh, User: copied}
	s.set = true
}

func (s *MemStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	s.set = false
}
