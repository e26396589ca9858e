package domain

import (
	"errors"
	"fmt"
)

// Error kinds that cross the service boundary. Everything else (provider
// fetch, cache, persistence, notification) degrades locally and is never
// surfaced to callers.
var (
	// ErrNotFound marks a missing or inactive region / disaster type.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("invalid input")
)

// NotFoundf wraps ErrNotFound with a formatted description.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Validationf wraps ErrValidation with a formatted description.
func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
