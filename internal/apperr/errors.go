package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure categories handlers know how to map
// to HTTP statuses. Services wrap these with %w and extra context.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrPersistence       = errors.New("persistence failure")
)

// Persistence wraps a store error so callers can both match the category
// with errors.Is and still unwrap the driver error.
func Persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func InvalidTransition(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, detail)
}
