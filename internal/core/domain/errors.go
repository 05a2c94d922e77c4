package domain

import "errors"

var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateID         = errors.New("record id already exists")
	ErrVersionConflict     = errors.New("record version conflict")
	ErrReferenced          = errors.New("record is still referenced")
	ErrIdempotencyInFlight = errors.New("request with this idempotency key is still in progress")
	ErrUnknownResource     = errors.New("unknown resource")
	ErrReadOnly            = errors.New("resource is read-only")
	ErrForbidden           = errors.New("access forbidden")
)

// ValidationError reports the first field that failed validation. Nothing is
// mutated when a ValidationError is returned.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Field + " is invalid"
}

// NewValidationError builds a ValidationError with an explicit message.
func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Message: message}
}
