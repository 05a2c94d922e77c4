package memory

import (
	"context"
	"sync"
	"time"
)

const defaultIdempotencyTTL = 24 * time.Hour

type idemEntry struct {
	recordID string
	expires  time.Time
}

// IdempotencyStore binds idempotency keys to record ids for a fixed TTL.
type IdempotencyStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]idemEntry
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{ttl: ttl, now: time.Now, entries: make(map[string]idemEntry)}
}

func (s *IdempotencyStore) Claim(_ context.Context, resource, key, recordID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	k := resource + ":" + key
	if e, ok := s.entries[k]; ok && now.Before(e.expires) {
		return e.recordID, false, nil
	}
	s.entries[k] = idemEntry{recordID: recordID, expires: now.Add(s.ttl)}
	s.sweep(now)
	return recordID, true, nil
}

func (s *IdempotencyStore) Release(_ context.Context, resource, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, resource+":"+key)
	return nil
}

// sweep drops expired keys; the caller holds mu.
func (s *IdempotencyStore) sweep(now time.Time) {
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
}
