package api

import (
	"github.com/go-playground/validator/v10"
)

// payloadValidator adapts go-playground/validator to echo's Validator
// interface.
type payloadValidator struct {
	validate *validator.Validate
}

func newPayloadValidator() *payloadValidator {
	return &payloadValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *payloadValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
