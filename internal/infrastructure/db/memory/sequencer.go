package memory

import (
	"context"
	"sync"

	"github.com/fieldworks/backoffice/internal/core/listing"
)

// Sequencer hands out display-id sequence numbers per prefix and year.
type Sequencer struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewSequencer() *Sequencer {
	return &Sequencer{last: make(map[string]int64)}
}

func (s *Sequencer) Next(_ context.Context, prefix string, year int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := listing.SequenceKey(prefix, year)
	s.last[key]++
	return s.last[key], nil
}
