package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopsync/backend/internal/domain/shared"
)

// MemoryIdempotencyStore implements shared.IdempotencyStore in
// process memory. Single-instance deployments and tests use it when
// Redis is not configured.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

var _ shared.IdempotencyStore = (*MemoryIdempotencyStore)(nil)

// NewMemoryIdempotencyStore creates an in-memory idempotency store
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{entries: make(map[string]time.Time)}
}

// MarkProcessed marks an ID as processed with a TTL
func (s *MemoryIdempotencyStore) MarkProcessed(_ context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if expiry, ok := s.entries[id]; ok && expiry.After(now) {
		return false, nil
	}
	s.entries[id] = now.Add(ttl)
	s.sweep(now)
	return true, nil
}

// IsProcessed checks whether an ID has been processed
func (s *MemoryIdempotencyStore) IsProcessed(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.entries[id]
	return ok && expiry.After(time.Now()), nil
}

// sweep drops expired entries, called under the lock
func (s *MemoryIdempotencyStore) sweep(now time.Time) {
	if len(s.entries) < 10000 {
		return
	}
	for id, expiry := range s.entries {
		if expiry.Before(now) {
			delete(s.entries, id)
		}
	}
}
