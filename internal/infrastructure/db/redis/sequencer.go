package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fieldworks/backoffice/internal/core/listing"
)

// Sequencer allocates display-id numbers with INCR, so every API replica
// shares one counter per prefix and year.
// Key format: displayid:<prefix>:<year>
type Sequencer struct {
	client redis.UniversalClient
}

func NewSequencer(client redis.UniversalClient) *Sequencer {
	return &Sequencer{client: client}
}

func (s *Sequencer) Next(ctx context.Context, prefix string, year int) (int64, error) {
	n, err := s.client.Incr(ctx, "displayid:"+listing.SequenceKey(prefix, year)).Result()
	if err != nil {
		return 0, fmt.Errorf("sequence %s/%d: %w", prefix, year, err)
	}
	return n, nil
}

