package tokenstore

import "github.com/ruta66/motoclub/internal/domain"

// NoopStore is used where no persistent storage exists. Every operation
// succeeds and persists nothing.
type NoopStore struct{}

func NewNoopStore() NoopStore { return NoopStore{} }

func (NoopStore) Load() Credentials                { return Credentials{} }
func (NoopStore) Save(_ *domain.User, _, _ string) {}
func (NoopStore) Clear()                           {}
