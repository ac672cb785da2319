package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a uniqueness constraint would be violated.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConflict is returned when a reservation's interval overlaps an
	// existing non-cancelled reservation for the same room.
	ErrConflict = errors.New("persistence: time slot already occupied")
	// ErrConstraintViolation is returned when a record fails a storage-level
	// integrity check such as a positive capacity.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a referenced record is missing.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrReferenced is returned when a delete is rejected because other
	// records still point at the target.
	ErrReferenced = errors.New("persistence: record still referenced")
)
