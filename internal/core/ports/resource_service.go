package ports

import (
	"context"

	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
)

// ListInput carries the query parameters of a list request.
type ListInput struct {
	Search   string
	Filters  map[string]string
	Page     int // 1-based; 0 means the first page
	PageSize int // 0 means the default page size
}

// CreateInput carries a record to create. Identity fields on Record are
// ignored unless KeepID is set, in which case a non-empty Record id is kept.
type CreateInput[T domain.Record] struct {
	Record         T
	IdempotencyKey string
	Actor          string
	KeepID         bool
}

// CreateResult is returned by Create.
type CreateResult[T domain.Record] struct {
	Record T
	// Replayed is true when the idempotency key matched an earlier create.
	Replayed bool
}

// UpdateInput replaces every mutable field of the record with the given id.
// ExpectedVersion, when non-zero, must match the stored version.
type UpdateInput[T domain.Record] struct {
	ID              string
	Record          T
	ExpectedVersion int64
	Actor           string
}

// DeleteInput targets one record.
type DeleteInput struct {
	ID    string
	Actor string
}

// RecordDetail is a record with its references resolved.
type RecordDetail[T domain.Record] struct {
	Record     T
	References map[string][]domain.RefView
}

// ResourceService is the list-resource manager for one entity type.
type ResourceService[T domain.Record] interface {
	List(ctx context.Context, input ListInput) (listing.Page[T], error)
	Get(ctx context.Context, id string) (*RecordDetail[T], error)
	Create(ctx context.Context, input CreateInput[T]) (*CreateResult[T], error)
	Update(ctx context.Context, input UpdateInput[T]) (T, error)
	Delete(ctx context.Context, input DeleteInput) error
}
