package ports

import (
	"context"

	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
)

// Repository persists the records of one entity type in insertion order.
//
// Implementations must serve List from a single consistent read, reject
// Insert of an id that already exists with domain.ErrDuplicateID, and make
// Replace conditional on the stored version.
type Repository[T domain.Record] interface {
	// List filters and paginates the collection.
	List(ctx context.Context, q listing.Query) (listing.Page[T], error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, rec T) error
	// Replace swaps the stored record with the same id for rec, provided the
	// stored version still equals expectedVersion. Returns domain.ErrNotFound
	// or domain.ErrVersionConflict otherwise.
	Replace(ctx context.Context, rec T, expectedVersion int64) error
	// Delete removes the record; domain.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
}
