package pubsub

import "time"

// QoS levels for subscriptions.
const (
	AtMostOnce  byte = 0
	AtLeastOnce byte = 1
	ExactlyOnce byte = 2
)

// Message is one opaque unit of delivery.
type Message struct {
	Topic      string
	Payload    []byte
	QoS        byte
	Retained   bool
	ReceivedAt time.Time
}

// ConnectOptions configures a broker connection.
type ConnectOptions struct {
	// ClientID identifies the session on the broker.
	ClientID string

	// KeepAlive is the protocol keep-alive interval.
	KeepAlive time.Duration

	// CleanSession discards broker-side session state on connect when true.
	CleanSession bool

	// Will is published by the broker if the connection drops without a
	// clean disconnect. Nil disables it.
	Will *Message

	// ConnectTimeout bounds the connect handshake. Zero uses the driver default.
	ConnectTimeout time.Duration
}

// Transport is a single publish/subscribe connection.
//
// Implementations must be safe for use from the consumer's receive loop
// while IsConnected is called concurrently. Reconnect must tear down the
// previous connection before establishing a new one so that at most one
// live connection exists.
type Transport interface {
	Connect(opts ConnectOptions) error
	Subscribe(topic string, qos byte) error
	Unsubscribe(topic string) error
	Reconnect() error
	Disconnect() error
	IsConnected() bool

	// Deliveries returns the receive channel. A nil message means the
	// connection was lost.
	Deliveries() <-chan *Message
}
