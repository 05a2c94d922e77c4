package ports

import "context"

// Sequencer hands out display-id sequence numbers. Values are strictly
// increasing per (prefix, year) and never reused, even after deletes.
type Sequencer interface {
	Next(ctx context.Context, prefix string, year int) (int64, error)
}
