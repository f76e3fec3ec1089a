package managedsubscribe

import "errors"

// ErrNegotiationFailed is returned when the managed subscribe call fails or
// its response lacks a broker URI or topic.
var ErrNegotiationFailed = errors.New("managedsubscribe: negotiation failed")
