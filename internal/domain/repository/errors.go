package repository

import "errors"

// Storage-level errors shared by every backend. The application layer
// translates them into domain errors.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate record")
	// ErrStateChanged reports a conditional update whose precondition no
	// longer holds.
	ErrStateChanged = errors.New("record changed state")
)
