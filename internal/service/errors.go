package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/hotel-booking/internal/repository"
)

// Error kinds surfaced to handlers.  Check them with errors.Is; a
// ValidationError also matches ErrValidation.
var (
	// ErrNotFound: the room or booking id does not exist.
	ErrNotFound = repository.ErrNotFound
	// ErrConflict: the transition is not allowed from the current state
	// (double booking, paying a cancelled booking, deleting a booked room).
	ErrConflict = repository.ErrConflict
	// ErrValidation: a form field is missing or malformed.
	ErrValidation = errors.New("validation failed")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

func notFound(what string, id uint64) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}
