package nats

import "errors"

// Domain-specific errors for NATS operations.
var (
	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("nats: client not connected")

	// ErrConnectionFailed is returned when a connect or reconnect attempt fails.
	ErrConnectionFailed = errors.New("nats: connection failed")

	// ErrSubscribeFailed is returned when a subscribe operation fails.
	ErrSubscribeFailed = errors.New("nats: subscribe failed")

	// ErrUnsubscribeFailed is returned when an unsubscribe operation fails.
	ErrUnsubscribeFailed = errors.New("nats: unsubscribe failed")

	// ErrInvalidSubject is returned for an empty subject.
	ErrInvalidSubject = errors.New("nats: subject cannot be empty")
)
