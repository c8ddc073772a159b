package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an optimistic version check fails
	ErrConflict = errors.New("conflict: row was modified by another writer")

	// ErrForeignKeyViolation is returned when a referenced row is missing
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrDuplicate is returned when a unique constraint rejects an insert
	ErrDuplicate = errors.New("duplicate")
)
