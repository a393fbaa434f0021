package rowset

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of materialization errors.
type ErrorType int

const (
	// ErrGeneric is a generic error.
	ErrGeneric ErrorType = iota
	// ErrProtocol is a cell protocol error (unknown tag, malformed length).
	ErrProtocol
	// ErrStream is an engine failure reported mid-iteration.
	ErrStream
	// ErrResource is a buffer or source resource error.
	ErrResource
	// ErrNative is a native library loading or binding error.
	ErrNative
)

// Error is a rowset-specific error type.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("rowset: %s", e.Message)
}

// Unwrap returns the wrapped engine error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error.
func NewError(typ ErrorType, message string) *Error {
	return &Error{
		Type:    typ,
		Message: message,
	}
}

// WrapError creates a new Error wrapping an underlying cause.
func WrapError(typ ErrorType, message string, err error) *Error {
	return &Error{
		Type:    typ,
		Message: fmt.Sprintf("%s: %v", message, err),
		Err:     err,
	}
}

// IsError checks if an error is of a specific type.
func IsError(err error, typ ErrorType) bool {
	var rsErr *Error
	if !errors.As(err, &rsErr) {
		return false
	}
	return rsErr.Type == typ
}
