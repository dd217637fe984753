package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the workflows
type ErrorKind string

const (
	KindUnauthenticated    ErrorKind = "unauthenticated"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindValidationFailure  ErrorKind = "validation_failure"
	KindPersistenceFailure ErrorKind = "persistence_failure"
	KindNotFound           ErrorKind = "not_found"
)

// Error is the typed error returned by domain services. Callers decide how to
// present it; the message is safe to show to users, Err is for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, domain.ErrNotFound) works
// regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Sentinels for errors.Is comparisons
var (
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrValidationFailure  = &Error{Kind: KindValidationFailure}
	ErrPersistenceFailure = &Error{Kind: KindPersistenceFailure}
	ErrNotFound           = &Error{Kind: KindNotFound}
)

func NewUnauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func NewUnauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func NewValidationFailure(format string, args ...any) *Error {
	return &Error{Kind: KindValidationFailure, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewPersistenceFailure wraps a store error
func NewPersistenceFailure(err error, message string) *Error {
	return &Error{Kind: KindPersistenceFailure, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when there is none
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}
