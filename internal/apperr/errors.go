// Package apperr defines the business error taxonomy shared by services
// and the API layer. Every failure a caller can act on carries a stable
// code; raw storage errors are wrapped as CodePersistence and never
// exposed verbatim.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation          Code = "validation"
	CodeAuthorization       Code = "authorization"
	CodeNotFound            Code = "not_found"
	CodeCapacityExceeded    Code = "capacity_exceeded"
	CodeDuplicateRequest    Code = "duplicate_request"
	CodeDuplicateEnrollment Code = "duplicate_enrollment"
	CodeAlreadyEnrolled     Code = "already_enrolled"
	CodeInvalidState        Code = "invalid_state"
	CodeSelfRequest         Code = "self_request"
	CodePersistence         Code = "persistence"
)

// Error is a categorized business error. Message is safe to show to the
// caller; Err (if set) is internal detail for logs only.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return New(CodeValidation, format, args...)
}

func Authorization(format string, args ...any) *Error {
	return New(CodeAuthorization, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(CodeNotFound, format, args...)
}

func CapacityExceeded(format string, args ...any) *Error {
	return New(CodeCapacityExceeded, format, args...)
}

func DuplicateRequest(format string, args ...any) *Error {
	return New(CodeDuplicateRequest, format, args...)
}

func DuplicateEnrollment(format string, args ...any) *Error {
	return New(CodeDuplicateEnrollment, format, args...)
}

func AlreadyEnrolled(format string, args ...any) *Error {
	return New(CodeAlreadyEnrolled, format, args...)
}

func InvalidState(format string, args ...any) *Error {
	return New(CodeInvalidState, format, args...)
}

func SelfRequest(format string, args ...any) *Error {
	return New(CodeSelfRequest, format, args...)
}

// Persistence wraps a storage failure. The caller-visible message stays
// generic; err is kept for logging.
func Persistence(err error) *Error {
	return &Error{Code: CodePersistence, Message: "internal storage error", Err: err}
}

// CodeOf classifies any error. Unrecognized errors are treated as
// persistence failures.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodePersistence
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal storage error"
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
