// Package apperror defines the domain error taxonomy shared by every layer.
//
// Services and repositories return these errors; only the handler layer
// knows how they map to HTTP status codes. The Message of an AppError is
// safe to show to clients, so it never contains internal ids or queries.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("Validation Error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
)

type AppError struct {
	Err     error  // sentinel the error belongs to
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource. Documents owned by another user are
// reported the same way so callers cannot tell whether they exist.
//
//	NotFound("workout") → "Workout not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", capitalize(resource)),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// InvalidID reports an identifier that is not well formed.
// An empty resource produces the generic "Invalid ID".
func InvalidID(resource string) *AppError {
	msg := "Invalid ID"
	if resource != "" {
		msg = fmt.Sprintf("Invalid %s ID", strings.ToLower(resource))
	}
	return &AppError{
		Err:     ErrValidation,
		Message: msg,
		Field:   "id",
	}
}

// Unauthorized is returned when no valid session accompanies a request.
func Unauthorized() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "Unauthorized",
	}
}

// Conflict reports a write that lost a race on a unique key.
func Conflict(resource string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists", capitalize(resource)),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
