package application

import (
	"errors"

	"github.com/example/roombooking/internal/persistence"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission
	// for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a uniqueness rule would be violated.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrConflict is returned when a reservation overlaps an existing
	// non-cancelled reservation for the same room. Recoverable: the caller
	// should pick a different time.
	ErrConflict = errors.New("application: time slot already occupied")
	// ErrInvalidCredentials covers wrong username, wrong password, and an
	// inactive account alike, so callers cannot probe account state.
	ErrInvalidCredentials = errors.New("application: username or password incorrect")
	// ErrRoomTypeInUse is returned when deleting a room type that rooms still
	// reference.
	ErrRoomTypeInUse = errors.New("application: room type still referenced by rooms")
	// ErrRoomInUse is returned when deleting a room that reservations still
	// reference.
	ErrRoomInUse = errors.New("application: room still referenced by reservations")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// mapRepoError translates persistence sentinels into their application
// counterparts so handlers only branch on one error family.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrConflict):
		return ErrConflict
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	default:
		return err
	}
}
