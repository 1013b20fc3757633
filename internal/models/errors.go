package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so the transport layer can map them to
// status codes without string matching.
type ErrorKind string

const (
	ErrorKindValidation   ErrorKind = "validation"
	ErrorKindNotFound     ErrorKind = "not_found"
	ErrorKindConflict     ErrorKind = "conflict"
	ErrorKindInvalidState ErrorKind = "invalid_state"
)

// DomainError is a non-fatal error surfaced to the caller. Operations that
// return one leave all entities unchanged.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewValidationError reports malformed or out-of-range input
func NewValidationError(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: ErrorKindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports an absent referenced entity
func NewNotFoundError(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: ErrorKindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewConflictError reports an invariant-violating request
func NewConflictError(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: ErrorKindConflict, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidStateError reports an operation attempted on a terminal-state entity
func NewInvalidStateError(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: ErrorKindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// ErrorKindOf extracts the kind from an error chain, or "" for unclassified errors
func ErrorKindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
