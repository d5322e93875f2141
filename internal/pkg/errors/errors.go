package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStepLocked signals that a step's gating conditions are unmet.
	ErrStepLocked = errors.New("step locked")
	// ErrConflict signals a concurrent mutation on the same (user, role) pair.
	ErrConflict = errors.New("conflict")
)
