package model

import "errors"

var (
	// ErrNotFound is returned by callers that require a memory to exist
	// (e.g. attaching a track). Store lookups themselves report absence
	// as a nil result, not an error.
	ErrNotFound = errors.New("not found")

	ErrValidation = errors.New("validation error")
)
