package models

import "errors"

var (
	// ErrValidation marks user-correctable request problems.
	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable indicates the time entry store could not be reached or is misconfigured.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrWriteFailure wraps ErrStoreUnavailable for failed event writes.
	ErrWriteFailure = errors.New("write failed")

	// ErrIndexNotReady is returned by the store when an ordered query lacks its index.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrNotFound indicates the addressed entry does not exist.
	ErrNotFound = errors.New("not found")
)
