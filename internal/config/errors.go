package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every ValidationError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError describes one bad setting.
type ValidationError struct {
	// Path is the dotted setting path, e.g. "aim.tolerance" or "menu.items[2].label".
	Path string
	// Message describes the problem.
	Message string
	// Value is the offending value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Is allows errors.Is to match ValidationError with ErrInvalidConfig.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}
