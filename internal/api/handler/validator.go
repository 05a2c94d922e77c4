package handler

import (
	"github.com/fieldworks/backoffice/internal/core/validation"
)

// echoValidator lets Echo's c.Validate(req) share the domain validator, so
// request payloads fail with the same *domain.ValidationError as records.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface.
func (echoValidator) Validate(i any) error {
	return validation.Struct(i)
}
