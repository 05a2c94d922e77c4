package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore binds idempotency keys to record ids.
// Key format: idem:<resource>:<key>
type IdempotencyStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewIdempotencyStore(client redis.UniversalClient, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) Claim(ctx context.Context, resource, key, recordID string) (string, bool, error) {
	k := idemKey(resource, key)
	// A key can expire between SETNX and GET; one retry covers that window.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, k, recordID, s.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("idempotency claim: %w", err)
		}
		if ok {
			return recordID, true, nil
		}
		existing, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("idempotency lookup: %w", err)
		}
		return existing, false, nil
	}
	return "", false, fmt.Errorf("idempotency claim: key %s kept expiring", k)
}

func (s *IdempotencyStore) Release(ctx context.Context, resource, key string) error {
	if err := s.client.Del(ctx, idemKey(resource, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func idemKey(resource, key string) string {
	return fmt.Sprintf("idem:%s:%s", resource, key)
}
