// Package template contains pure functions for reading and amending Unraid
// container template XML. This is part of the Functional Core - all functions
// are pure with no I/O.
package template

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrEmptyInput is returned when the template document is empty.
	ErrEmptyInput = errors.New("template is empty")

	// ErrMalformed is returned when the document is not a valid Unraid
	// container template.
	ErrMalformed = errors.New("malformed template")
)

// MalformedError wraps ErrMalformed with detail about what failed.
type MalformedError struct {
	Message string
	Err     error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

// NewMalformedError creates a new MalformedError.
func NewMalformedError(message string, err error) *MalformedError {
	return &MalformedError{Message: message, Err: err}
}
