// Package apperror defines errors that carry the HTTP status they should be
// reported with.
package apperror

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

// Error is an application error with an HTTP status code.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string // per-field validation messages, optional
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error with the given status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// NotFound reports an entity id that does not resolve.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Validation reports a request that was well-formed but unacceptable.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// InvalidFields reports request fields that failed validation.
func InvalidFields(fields map[string]string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Validation failed", Fields: fields}
}

// Unauthorized reports missing or rejected credentials.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// BadRequest wraps a decoding failure of the request body.
func BadRequest(err error) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err}
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or 0 if it carries none.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.Status
	}
	return 0
}
