package validators

import (
	"github.com/anonto42/nano-posts/backend/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

// CustomValidator plugs go-playground/validator into echo's Context.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the validator registered on the echo instance
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate reports struct tag violations as validation errors (HTTP 422).
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return apperrors.Validation(err.Error(), nil)
	}
	return nil
}
