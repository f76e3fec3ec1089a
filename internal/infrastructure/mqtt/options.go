package mqtt

import (
	"crypto/tls"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/smart-trailer/internal/pubsub"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for a connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultOperationTimeout bounds subscribe, unsubscribe and publish acknowledgments.
	defaultOperationTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 250 // milliseconds

	// defaultKeepAlive is used when ConnectOptions.KeepAlive is zero.
	defaultKeepAlive = 30 * time.Second

	// defaultBufferSize is the capacity of the delivery channel.
	defaultBufferSize = 64

	// maxQoS is the maximum QoS level supported.
	maxQoS = 2

	// tlsMinVersion is the minimum TLS version for ssl:// brokers.
	tlsMinVersion = tls.VersionTLS12
)

// buildClientOptions creates paho options for one connection.
//
// This configures:
//   - Broker URI (mqtt:// is rewritten to tcp://)
//   - Client ID, keep-alive and clean session flag
//   - Last will, when opts.Will is set
//   - No auto-reconnect and no connect retry
//   - TLS for ssl://, tls:// and mqtts:// brokers
func buildClientOptions(broker string, opts pubsub.ConnectOptions) *pahomqtt.ClientOptions {
	po := pahomqtt.NewClientOptions()
	po.AddBroker(brokerURI(broker))
	po.SetClientID(opts.ClientID)

	po.SetCleanSession(opts.CleanSession)

	keepAlive := opts.KeepAlive
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	po.SetKeepAlive(keepAlive)

	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	po.SetConnectTimeout(connectTimeout)

	// The consumer owns reconnect policy.
	po.SetAutoReconnect(false)
	po.SetConnectRetry(false)

	if w := opts.Will; w != nil && w.Topic != "" {
		po.SetBinaryWill(w.Topic, w.Payload, w.QoS, w.Retained)
	}

	if isTLSBroker(broker) {
		po.SetTLSConfig(&tls.Config{MinVersion: tlsMinVersion})
	}

	return po
}

// brokerURI maps scheme aliases onto ones paho understands.
func brokerURI(broker string) string {
	if rest, ok := strings.CutPrefix(broker, "mqtt://"); ok {
		return "tcp://" + rest
	}
	return broker
}

func isTLSBroker(broker string) bool {
	for _, scheme := range []string{"ssl://", "tls://", "mqtts://"} {
		if strings.HasPrefix(broker, scheme) {
			return true
		}
	}
	return false
}

func validateQoS(qos byte) error {
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	return nil
}
