package domain

import "errors"

var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness or referential constraint would be violated.
	ErrConflict = errors.New("conflict")
	// ErrInvalid indicates malformed or incomplete input.
	ErrInvalid = errors.New("invalid input")
)
