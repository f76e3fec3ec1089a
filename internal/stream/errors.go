package stream

import (
	"errors"
	"fmt"
)

// Domain-specific errors for the stream consumer.
var (
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("stream: transport failure")

	// ErrNotStarted is returned by Run when Start has not succeeded.
	ErrNotStarted = errors.New("stream: consumer not started")

	// ErrDeliveriesClosed is returned when the transport closes its
	// delivery channel while the consumer is running.
	ErrDeliveriesClosed = errors.New("stream: delivery channel closed")
)

// Transport operations reported in TransportError.Op.
const (
	OpConnect     = "connect"
	OpSubscribe   = "subscribe"
	OpReconnect   = "reconnect"
	OpUnsubscribe = "unsubscribe"
	OpDisconnect  = "disconnect"
	OpReceive     = "receive"
)

// TransportError describes a failed transport operation.
type TransportError struct {
	Op    string
	Topic string
	Err   error
}

func (e *TransportError) Error() string {
	if e.Topic != "" {
		return fmt.Sprintf("stream: %s %q: %v", e.Op, e.Topic, e.Err)
	}
	return fmt.Sprintf("stream: %s: %v", e.Op, e.Err)
}

// Unwrap lets errors.Is match both ErrTransport and the cause.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

func transportErr(op, topic string, err error) error {
	return &TransportError{Op: op, Topic: topic, Err: err}
}
