package services

import (
	"errors"
	"fmt"
)

// ErrAuthFailed is returned when the review passphrase does not match the
// configured secret. The gate stays locked.
var ErrAuthFailed = errors.New("authentication failed")

// MissingFieldError reports a required field that was empty after trimming.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field '%s' is required", e.Field)
}

// InvalidFormatError reports a field whose value does not match its
// expected format.
type InvalidFormatError struct {
	Field  string
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("field '%s' is invalid: %s", e.Field, e.Reason)
}

// PersistenceError wraps a storage failure so the boundary can tell it
// apart from a validation failure. The underlying error text is surfaced to
// the user as-is.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save registration: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
