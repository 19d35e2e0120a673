package session

import (
	"context"
	"sync"
	"time"

	"github.com/civicworks/waste-complaints/internal/domain"
)

type memoryEntry struct {
	identity  domain.Identity
	expiresAt time.Time
}

// MemoryStore is a process-local session store used when Redis is not
// configured, and by tests. Expired entries are dropped lazily on access.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore builds an in-memory session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Open creates a session for the identity.
func (s *MemoryStore) Open(_ context.Context, identity domain.Identity) (string, error) {
	token := newToken()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = memoryEntry{identity: identity, expiresAt: s.now().Add(s.ttl)}
	return token, nil
}

// Resolve returns the identity for a live token, nil otherwise.
func (s *MemoryStore) Resolve(_ context.Context, token string) (*domain.Identity, error) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, token)
		s.mu.Unlock()
		return nil, nil
	}
	identity := entry.identity
	return &identity, nil
}

// Close removes the session; absent tokens are ignored.
func (s *MemoryStore) Close(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}

// Count reports live sessions. Used by tests.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, entry := range s.entries {
		if !s.now().After(entry.expiresAt) {
			count++
		}
	}
	return count
}
