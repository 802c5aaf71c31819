package blog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing records and records the viewer may not see.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a viewer mutates something they do not own.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated is returned for writes attempted without an identity.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("already exists")
)

// ValidationError rejects a single input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
