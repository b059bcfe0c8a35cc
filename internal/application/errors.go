package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidSign   = errors.New("invalid sign")
	ErrAlreadyExists = errors.New("already exists")
	ErrNoTrigger     = errors.New("no mention trigger")
	ErrNotMention    = errors.New("not a mention document")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SelectionError reports a suggestion that could not be applied. The text
// buffer is left untouched when it is returned.
type SelectionError struct {
	Path   string
	Reason string
	Err    error
}

func (e *SelectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot apply suggestion for %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot apply suggestion for %s: %s", e.Path, e.Reason)
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}
