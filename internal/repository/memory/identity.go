package memory

import (
	"context"
	"sync"

	"github.com/lalith-99/collabsphere/internal/models"
)

// IdentityStore is the default slot backend: identities live for the lifetime
// of the process.
type IdentityStore struct {
	mu    sync.RWMutex
	slots map[string]models.Identity
}

func NewIdentityStore() *IdentityStore {
	return &IdentityStore{slots: make(map[string]models.Identity)}
}

func (s *IdentityStore) Load(_ context.Context, key string) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.slots[key]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *IdentityStore) Save(_ context.Context, key string, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = *identity
	return nil
}

func (s *IdentityStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}

// Len is the number of occupied slots.
func (s *IdentityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}
