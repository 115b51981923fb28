// Package apperr defines sentinel errors shared across the application layers.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
	ErrRelocate      = errors.New("relocate failed")
	ErrNoActiveEntry = errors.New("no active entry")
	ErrNothingDue    = errors.New("nothing due")
)
