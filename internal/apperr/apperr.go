// Package apperr defines the error taxonomy shared by every layer of the
// task graph engine. Business failures are returned values, never panics.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the observable error signals a caller can branch on.
type Kind string

const (
	NotFound             Kind = "not_found"
	DuplicateKey         Kind = "duplicate_key"
	InvalidArgument      Kind = "invalid_argument"
	AccessDenied         Kind = "access_denied"
	HasChildren          Kind = "has_children"
	CannotRemoveForceTag Kind = "cannot_remove_force_tag"
	WouldCreateCycle     Kind = "would_create_cycle"
	TagLimit             Kind = "tag_limit"
	StorageFailure       Kind = "storage_failure"
)

// Error is the concrete error type returned by every business operation.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a StorageFailure (or the given kind) around a lower-level cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
