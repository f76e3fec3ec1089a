package mqtt

import (
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/smart-trailer/internal/pubsub"
)

// Client is an MQTT implementation of pubsub.Transport.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//   - At most one broker connection exists at any time.
type Client struct {
	broker     string
	deliveries chan *pubsub.Message

	// mu guards the live session and the options it was created from.
	mu      sync.Mutex
	sess    *session
	opts    pubsub.ConnectOptions
	hasOpts bool

	// logger for error/panic logging (optional, set via SetLogger).
	logger   Logger
	loggerMu sync.RWMutex

	// newClient builds the paho client; replaced in tests.
	newClient func(*pahomqtt.ClientOptions) pahomqtt.Client
}

// session is one paho connection. quit is closed when the session is torn
// down so blocked handler goroutines can give up.
type session struct {
	client pahomqtt.Client
	quit   chan struct{}
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Option configures a Client.
type Option func(*Client)

// WithBufferSize sets the capacity of the delivery channel.
func WithBufferSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.deliveries = make(chan *pubsub.Message, n)
		}
	}
}

// New creates a disconnected client for the broker at uri
// (tcp://, mqtt://, ssl://, ws:// or wss://).
func New(uri string, opts ...Option) *Client {
	c := &Client{
		broker:     uri,
		deliveries: make(chan *pubsub.Message, defaultBufferSize),
		newClient:  pahomqtt.NewClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Broker returns the broker URI.
func (c *Client) Broker() string {
	return c.broker
}

// Connect establishes the broker connection described by opts. The options
// are kept for Reconnect.
func (c *Client) Connect(opts pubsub.ConnectOptions) error {
	if c.broker == "" {
		return ErrInvalidBroker
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess != nil {
		c.teardownLocked()
	}
	c.opts = opts
	c.hasOpts = true

	return c.connectLocked()
}

// Reconnect tears down the current connection, if any, and connects again
// with the options of the last Connect call.
func (c *Client) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasOpts {
		return fmt.Errorf("%w: reconnect before connect", ErrConnectionFailed)
	}
	if c.sess != nil {
		c.teardownLocked()
	}
	return c.connectLocked()
}

func (c *Client) connectLocked() error {
	sess := &session{quit: make(chan struct{})}

	po := buildClientOptions(c.broker, c.opts)
	po.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleConnectionLost(sess, err)
	})

	sess.client = c.newClient(po)
	token := sess.client.Connect()
	timeout := po.ConnectTimeout + time.Second
	if !token.WaitTimeout(timeout) {
		close(sess.quit)
		sess.client.Disconnect(0)
		return fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, timeout)
	}
	if err := token.Error(); err != nil {
		close(sess.quit)
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	c.sess = sess
	return nil
}

// handleConnectionLost signals the loss to the receiver with a nil delivery.
func (c *Client) handleConnectionLost(sess *session, err error) {
	if logger := c.getLogger(); logger != nil {
		logger.Warn("MQTT connection lost", "broker", c.broker, "error", err)
	}
	c.push(sess, nil)
}

// push hands msg to the receiver unless the session has been torn down.
func (c *Client) push(sess *session, msg *pubsub.Message) {
	select {
	case <-sess.quit:
		return
	default:
	}

	select {
	case c.deliveries <- msg:
	case <-sess.quit:
	}
}

// Disconnect closes the broker connection.
//
// Returns:
//   - error: ErrNotConnected if there is no connection to close
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess == nil {
		return ErrNotConnected
	}
	c.teardownLocked()
	return nil
}

func (c *Client) teardownLocked() {
	close(c.sess.quit)
	c.sess.client.Disconnect(defaultDisconnectQuiesce)
	c.sess = nil
}

// IsConnected reports whether the current connection is up.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != nil && c.sess.client.IsConnected()
}

// Deliveries returns the receive channel. It is never closed.
func (c *Client) Deliveries() <-chan *pubsub.Message {
	return c.deliveries
}

// SetLogger sets a logger for error and panic logging.
// If not set, errors are silently ignored.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

// getLogger returns the current logger (may be nil).
func (c *Client) getLogger() Logger {
	c.loggerMu.RLock()
	defer c.loggerMu.RUnlock()
	return c.logger
}

// current returns the live session or ErrNotConnected.
func (c *Client) current() (*session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil || !c.sess.client.IsConnected() {
		return nil, ErrNotConnected
	}
	return c.sess, nil
}

// messageHandler converts paho messages into deliveries, with panic recovery.
func (c *Client) messageHandler(sess *session) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				if logger := c.getLogger(); logger != nil {
					logger.Error("MQTT handler panic recovered",
						"topic", msg.Topic(),
						"panic", r,
					)
				}
			}
		}()

		c.push(sess, &pubsub.Message{
			Topic:      msg.Topic(),
			Payload:    msg.Payload(),
			QoS:        msg.Qos(),
			Retained:   msg.Retained(),
			ReceivedAt: time.Now(),
		})
	}
}

var _ pubsub.Transport = (*Client)(nil)
