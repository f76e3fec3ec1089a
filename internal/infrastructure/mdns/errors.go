package mdns

import "errors"

var (
	// ErrNotFound indicates no registry answered before the timeout.
	ErrNotFound = errors.New("mdns: registry not found")

	// ErrBrowseFailed indicates the browse itself could not be started.
	ErrBrowseFailed = errors.New("mdns: browse failed")
)
