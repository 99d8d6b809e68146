package backend

import "errors"

// Failure classes for backend requests. Callers match with errors.Is and
// treat every one as a degraded tick, never a fatal condition.
var (
	// ErrTransport covers network errors and non-success HTTP statuses.
	ErrTransport = errors.New("backend transport failure")

	// ErrDecode covers malformed or unexpectedly-shaped response bodies.
	ErrDecode = errors.New("backend response decode failure")

	// ErrNoFrame means the backend answered but has no video frame yet.
	ErrNoFrame = errors.New("no video frame available")
)
