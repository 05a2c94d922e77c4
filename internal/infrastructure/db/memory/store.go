// Package memory holds process-local implementations of the storage ports.
// It backs STORAGE=memory and the service tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
)

// Store keeps the records of one resource in insertion order. Writers swap
// in a new slice, so a List works on the snapshot it started with. Stored
// records are shared with callers and must not be mutated.
type Store[T domain.Record] struct {
	schema listing.Schema[T]

	mu      sync.RWMutex
	records []T
}

func NewStore[T domain.Record](schema listing.Schema[T]) *Store[T] {
	return &Store[T]{schema: schema}
}

func (s *Store[T]) snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

func (s *Store[T]) List(_ context.Context, q listing.Query) (listing.Page[T], error) {
	matched := s.schema.Filter(s.snapshot(), q)
	return listing.Paginate(matched, q.PageSize, q.Page), nil
}

func (s *Store[T]) Get(_ context.Context, id string) (T, error) {
	records := s.snapshot()
	if i := indexOf(records, id); i >= 0 {
		return records[i], nil
	}
	var zero T
	return zero, domain.ErrNotFound
}

func (s *Store[T]) Insert(_ context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := rec.Base()
	if indexOf(s.records, m.ID) >= 0 {
		return domain.ErrDuplicateID
	}
	if m.DisplayID != "" && slices.ContainsFunc(s.records, func(r T) bool { return r.Base().DisplayID == m.DisplayID }) {
		return fmt.Errorf("%w: display id %s", domain.ErrDuplicateID, m.DisplayID)
	}
	next := make([]T, len(s.records), len(s.records)+1)
	copy(next, s.records)
	s.records = append(next, rec)
	return nil
}

func (s *Store[T]) Replace(_ context.Context, rec T, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.records, rec.Base().ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if s.records[i].Base().Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	next := slices.Clone(s.records)
	next[i] = rec
	s.records = next
	return nil
}

func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.records, id)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.records = slices.Delete(slices.Clone(s.records), i, i+1)
	return nil
}

// Len reports the number of stored records.
func (s *Store[T]) Len() int {
	return len(s.snapshot())
}

func indexOf[T domain.Record](records []T, id string) int {
	return slices.IndexFunc(records, func(r T) bool { return r.Base().ID == id })
}
