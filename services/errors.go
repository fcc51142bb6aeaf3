package services

import "errors"

// Error taxonomy for the matching core. Controllers map these to HTTP
// statuses; everything unrecognized is treated as an upstream failure.
var (
	// ErrUnauthorized - missing, invalid or expired credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput - malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSelfSwipe - a user may not swipe on themselves.
	ErrSelfSwipe = errors.New("cannot swipe on yourself")

	// ErrAlreadyInteracted - an interaction already exists for the
	// (actor, target) pair. Clients should treat this as already recorded.
	ErrAlreadyInteracted = errors.New("interaction already recorded")

	// ErrNotFound - the referenced match or user does not exist.
	ErrNotFound = errors.New("not found")
)
