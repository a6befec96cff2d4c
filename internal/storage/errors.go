package storage

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidValue indicates an empty or blank value.
	ErrInvalidValue = errors.New("invalid value")

	// ErrAlreadyExists indicates a record with the same value is stored.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound indicates no record matches the value.
	ErrNotFound = errors.New("not found")
)
