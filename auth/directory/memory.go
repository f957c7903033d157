package directory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/vendor-auth/auth/auth"
	"github.com/vendor-auth/auth/pkg/option"
)

// InMemoryIdentityStore is an auth.IdentityStore holding identities in a
// mutex-guarded map, keyed by username. It serves configuration-seeded
// deployments and tests.
type InMemoryIdentityStore struct {
	entries map[string]auth.Identity

	initOnce sync.Once
	mu       sync.RWMutex
}

// NewInMemoryIdentityStore returns a new InMemoryIdentityStore seeded with
// the given identities.
func NewInMemoryIdentityStore(entries map[string]auth.Identity) *InMemoryIdentityStore {
	return &InMemoryIdentityStore{
		entries: maps.Clone(entries),
	}
}

func (s *InMemoryIdentityStore) init() {
	s.initOnce.Do(func() {
		if s.entries == nil {
			s.entries = make(map[string]auth.Identity)
		}
	})
}

// FindByUsername implements auth.IdentityStore.
func (s *InMemoryIdentityStore) FindByUsername(_ context.Context, username string) (option.Option[auth.Identity], error) {
	s.init()
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.entries[username]
	if !ok {
		return option.None[auth.Identity](), nil
	}

	return option.Some(identity), nil
}

// Update implements auth.IdentityStore.
func (s *InMemoryIdentityStore) Update(_ context.Context, identity auth.Identity) error {
	s.init()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[identity.Username]; !ok {
		return fmt.Errorf("%w: unknown username %q", auth.ErrCommitFailed, identity.Username)
	}

	s.entries[identity.Username] = identity

	return nil
}

// Add registers a new identity. Provisioning is external to the core, but
// seeded deployments and tests need a way in.
func (s *InMemoryIdentityStore) Add(identity auth.Identity) {
	s.init()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[identity.Username] = identity
}
