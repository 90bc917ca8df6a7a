// Package apperror defines the typed error taxonomy shared by services and
// handlers: not-found, validation, conflict, permission-denied and
// deletion-failed conditions, each carrying a stable code.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP mapping and logging.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation"
	KindConflict         Kind = "conflict"
	KindPermissionDenied Kind = "permission_denied"
	KindDeletionFailed   Kind = "deletion_failed"
	KindInternal         Kind = "internal"
)

// Error is the concrete error type produced by the service layer.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound indicates the target entity does not exist.
func NotFound(entity string, id int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %d", entity, id),
	}
}

// Validation indicates a request that fails input validation.
func Validation(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// Conflict indicates the request conflicts with current state.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf(format, args...),
	}
}

// PermissionDenied indicates the actor lacks the required grant.
func PermissionDenied(message string) *Error {
	return &Error{
		Kind:    KindPermissionDenied,
		Message: message,
	}
}

// DeletionFailed wraps a database error raised during a cascade delete. The
// transaction has been rolled back by the time this is returned.
func DeletionFailed(message string, cause error) *Error {
	return &Error{
		Kind:    KindDeletionFailed,
		Message: message,
		Err:     cause,
	}
}

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: message,
		Err:     cause,
	}
}

// KindOf returns the Kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
