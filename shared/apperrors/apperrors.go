// Package apperrors defines the error kinds shared by every EWM service layer.
// Services return *Error values (or wrap them); handlers translate the kind
// into an HTTP status with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrBadRequest = errors.New("bad request")
	ErrForbidden  = errors.New("forbidden")
)

// Error carries a kind plus the human readable reason and message that end
// up in the ApiError body.
type Error struct {
	Kind    error
	Reason  string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, reason, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return newError(ErrNotFound, "The required object was not found.", format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(ErrConflict, "For the requested operation the conditions are not met.", format, args...)
}

func BadRequest(format string, args ...any) *Error {
	return newError(ErrBadRequest, "Incorrectly made request.", format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(ErrForbidden, "Access to the requested resource is denied.", format, args...)
}

// Reason returns the reason attached to err, or a generic one.
func Reason(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Reason != "" {
		return appErr.Reason
	}
	return "Unexpected error."
}
