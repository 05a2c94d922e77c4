package ports

import "context"

// IdempotencyStore remembers which record a client-supplied idempotency key
// created.
type IdempotencyStore interface {
	// Claim binds key to recordID unless the key is already bound. When it is,
	// claimed is false and existing holds the bound record id.
	Claim(ctx context.Context, resource, key, recordID string) (existing string, claimed bool, err error)
	// Release forgets a key whose create did not complete.
	Release(ctx context.Context, resource, key string) error
}
