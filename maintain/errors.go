package maintain

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrWarmerRequired is returned when a Prewarmer is constructed
	// without a warm function.
	ErrWarmerRequired = errors.New("warmer is required")
)
