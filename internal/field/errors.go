package field

import (
	"errors"
	"fmt"
)

// Domain errors for field and geometry operations.
var (
	// ErrInvalidConfig indicates a construction parameter outside its valid range.
	ErrInvalidConfig = errors.New("field: invalid configuration")

	// ErrOutOfBounds indicates a grid query outside the sampled window.
	ErrOutOfBounds = errors.New("field: coordinate out of bounds")

	// ErrDegenerate indicates geometry that cannot carry any current.
	ErrDegenerate = errors.New("field: degenerate geometry")
)

// ConfigError wraps ErrInvalidConfig with the offending parameter.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("field: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Invalid is shorthand for building a *ConfigError.
func Invalid(name string, value any, reason string) error {
	return &ConfigError{Field: name, Value: value, Reason: reason}
}

// BoundsError wraps ErrOutOfBounds with the rejected coordinate.
type BoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("field: cell (%d,%d) outside %dx%d grid", e.X, e.Y, e.Width, e.Height)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
