package sqlite

import (
	"context"
	"fmt"

	"github.com/fieldworks/backoffice/internal/core/listing"
)

// Sequencer keeps one row per prefix and year in the sequences table.
type Sequencer struct {
	db *DB
}

func NewSequencer(db *DB) *Sequencer {
	return &Sequencer{db: db}
}

func (s *Sequencer) Next(ctx context.Context, prefix string, year int) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sequences (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1
		RETURNING value`,
		listing.SequenceKey(prefix, year),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sequence %s/%d: %w", prefix, year, err)
	}
	return n, nil
}
