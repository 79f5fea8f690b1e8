package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Precondition violations are fatal and reject the whole operation.
	ErrPrecondition = errors.New("precondition violated")

	ErrMissingField      = fmt.Errorf("%w: missing required field", ErrPrecondition)
	ErrShapeMismatch     = fmt.Errorf("%w: shape mismatch", ErrPrecondition)
	ErrLatentDimMismatch = fmt.Errorf("%w: importance length does not match latent dimensions", ErrPrecondition)
	ErrSelectionRange    = fmt.Errorf("%w: selection index out of range", ErrPrecondition)
	ErrInvalidEvent      = fmt.Errorf("%w: invalid shot event", ErrPrecondition)
	ErrInvalidGrid       = fmt.Errorf("%w: invalid grid configuration", ErrPrecondition)

	// Boundary-layer lifecycle errors
	ErrNotInitialized = errors.New("session not initialized")
	ErrSnapshotEmpty  = errors.New("no snapshot stored")
)

// Error constructors with context
func NewMissingFieldError(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

func NewShapeError(what string, got, want int) error {
	return fmt.Errorf("%w: %s is %d, want %d", ErrShapeMismatch, what, got, want)
}

// IsPrecondition reports whether err is a fatal precondition violation.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}
