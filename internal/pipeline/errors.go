package pipeline

import "errors"

var (
	// ErrUnsupportedScheme indicates a negotiated broker URI whose scheme
	// has no transport driver.
	ErrUnsupportedScheme = errors.New("pipeline: unsupported broker scheme")

	// ErrNoRegistry indicates neither a registry address nor mDNS discovery
	// is configured.
	ErrNoRegistry = errors.New("pipeline: no registry address")
)
