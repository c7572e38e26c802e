package application

import (
	"errors"
	"fmt"

	"dasha/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ProfileError represents a profile lookup or write failure
type ProfileError struct {
	Ref    string
	Reason string
	Err    error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile %s: %s", e.Ref, e.Reason)
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err was caused by caller input rather than
// by storage or the engine's resolution limits
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, domain.ErrOutOfRangeInput)
}
