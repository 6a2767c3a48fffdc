package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tutorhub/tutorhub/internal/apperr"
)

// envelope is the uniform response shape for every operation, success or
// failure. Code is only set on failure.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func created(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

var statusByCode = map[apperr.Code]int{
	apperr.CodeValidation:          http.StatusBadRequest,
	apperr.CodeAuthorization:       http.StatusForbidden,
	apperr.CodeNotFound:            http.StatusNotFound,
	apperr.CodeCapacityExceeded:    http.StatusConflict,
	apperr.CodeDuplicateRequest:    http.StatusConflict,
	apperr.CodeDuplicateEnrollment: http.StatusConflict,
	apperr.CodeAlreadyEnrolled:     http.StatusConflict,
	apperr.CodeInvalidState:        http.StatusConflict,
	apperr.CodeSelfRequest:         http.StatusConflict,
	apperr.CodePersistence:         http.StatusInternalServerError,
}

// fail translates a business error into the envelope. The message comes
// from the taxonomy, so storage detail never leaks.
func fail(c echo.Context, err error) error {
	code := apperr.CodeOf(err)
	status, found := statusByCode[code]
	if !found {
		status = http.StatusInternalServerError
	}

	return c.JSON(status, envelope{
		Success: false,
		Message: apperr.MessageOf(err),
		Code:    string(code),
	})
}
