package pipeline

import (
	"fmt"
	"strings"

	"github.com/nerrad567/smart-trailer/internal/infrastructure/mqtt"
	"github.com/nerrad567/smart-trailer/internal/infrastructure/nats"
	"github.com/nerrad567/smart-trailer/internal/pubsub"
)

// TransportFactory creates a disconnected transport for a broker URI.
type TransportFactory func(brokerURI string, bufferSize int) (pubsub.Transport, error)

// NewTransport picks a driver from the broker URI scheme. A URI without a
// scheme is treated as plain MQTT over TCP.
func NewTransport(brokerURI string, bufferSize int) (pubsub.Transport, error) {
	scheme, _, ok := strings.Cut(brokerURI, "://")
	if !ok {
		return mqtt.New("tcp://"+brokerURI, mqtt.WithBufferSize(bufferSize)), nil
	}

	switch strings.ToLower(scheme) {
	case "tcp", "mqtt", "ssl", "tls", "mqtts", "ws", "wss":
		return mqtt.New(brokerURI, mqtt.WithBufferSize(bufferSize)), nil
	case "nats":
		return nats.New(brokerURI, nats.WithBufferSize(bufferSize)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, brokerURI)
	}
}
