package registry

import "errors"

// Domain-specific errors for registry lookups.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound is returned when the registry has no service for the descriptor.
	ErrNotFound = errors.New("registry: service not found")

	// ErrMismatch is returned when the registered service's communication kind
	// and communication reference both differ from the descriptor.
	ErrMismatch = errors.New("registry: service communication mismatch")

	// ErrUnavailable is returned when the registry could not be queried.
	ErrUnavailable = errors.New("registry: lookup failed")
)
