package directory

import "errors"

// Domain-specific errors for entity resolution.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNoEntity is returned when the directory has no record for the entity id.
	ErrNoEntity = errors.New("directory: entity not found")

	// ErrNoMatchingEndpoint is returned when the entity exists but none of its
	// endpoints supports the required protocol and operations.
	ErrNoMatchingEndpoint = errors.New("directory: no endpoint matches the requirements")

	// ErrResolutionExhausted is returned by ResolveWithRetry when every attempt failed.
	ErrResolutionExhausted = errors.New("directory: resolution retries exhausted")

	// ErrUnavailable is returned when the directory could not be queried.
	ErrUnavailable = errors.New("directory: request failed")

	// ErrRegisterFailed is returned when entity registration is rejected.
	ErrRegisterFailed = errors.New("directory: register failed")
)
