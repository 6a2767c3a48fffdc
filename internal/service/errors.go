package service

import (
	"errors"

	"github.com/tutorhub/tutorhub/internal/apperr"
)

// asAppError passes business errors through untouched and wraps anything
// else (driver failures, broken transactions) as a persistence error so
// raw storage detail never crosses the service boundary.
func asAppError(err error) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e
	}
	return apperr.Persistence(err)
}
