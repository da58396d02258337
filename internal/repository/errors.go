// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver specific errors.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a room or booking id does not exist.
// Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as deleting a room that still has bookings or
// booking a room for dates that are already taken. Handlers translate
// this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrDuplicate is returned when a unique column (room number, booking
// reference) already holds the value being written.
var ErrDuplicate = errors.New("duplicate value")

// isUniqueViolation recognises unique constraint failures from the
// supported drivers: SQLite, MySQL 1062 and Postgres 23505.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "1062") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key")
}

// isForeignKeyViolation recognises restricting foreign key failures:
// SQLite, MySQL 1451 and Postgres 23503.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint") ||
		strings.Contains(msg, "1451") ||
		strings.Contains(msg, "23503") ||
		strings.Contains(msg, "violates foreign key")
}
