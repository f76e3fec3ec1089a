package stream

import (
	"time"

	"github.com/nerrad567/smart-trailer/internal/pubsub"
)

// Defaults applied by DefaultConfig.
const (
	DefaultClientIDPrefix = "smart-trailer-consumer"
	DefaultKeepAlive      = 30 * time.Second
	DefaultWillTopic      = "test"
	DefaultWillPayload    = "Receiver lost connection"
)

// Config controls how the consumer connects and subscribes.
type Config struct {
	// ClientIDPrefix is joined with a random UUID to form the client id.
	ClientIDPrefix string

	KeepAlive      time.Duration
	CleanSession   bool
	ConnectTimeout time.Duration

	// Will is registered with the broker at connect. Nil disables it.
	Will *pubsub.Message

	// QoS is the subscription quality of service.
	QoS byte
}

// DefaultConfig returns a persistent-session, QoS 1 configuration with a
// last will on topic "test".
func DefaultConfig() Config {
	return Config{
		ClientIDPrefix: DefaultClientIDPrefix,
		KeepAlive:      DefaultKeepAlive,
		CleanSession:   false,
		Will: &pubsub.Message{
			Topic:   DefaultWillTopic,
			Payload: []byte(DefaultWillPayload),
			QoS:     pubsub.AtMostOnce,
		},
		QoS: pubsub.AtLeastOnce,
	}
}
