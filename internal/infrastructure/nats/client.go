package nats

import (
	"fmt"
	"sync"
	"time"

	gonats "github.com/nats-io/nats.go"

	"github.com/nerrad567/smart-trailer/internal/pubsub"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultKeepAlive      = 30 * time.Second
	defaultBufferSize     = 64

	// maxPingsOut missed pings mark the connection stale.
	maxPingsOut = 2
)

// Logger interface for optional logging support.
type Logger interface {
	Warn(msg string, args ...any)
}

// Client is a NATS implementation of pubsub.Transport.
//
// Thread Safety: all methods are safe for concurrent use.
type Client struct {
	url        string
	deliveries chan *pubsub.Message

	mu      sync.Mutex
	sess    *session
	opts    pubsub.ConnectOptions
	hasOpts bool

	logger Logger
}

type session struct {
	conn *gonats.Conn
	subs map[string]*gonats.Subscription
	quit chan struct{}
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

// New creates a disconnected client for the server at url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		deliveries: make(chan *pubsub.Message, defaultBufferSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger sets a logger for connection events.
func (c *Client) SetLogger(logger Logger) {
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}

// connectionOptions maps ConnectOptions onto nats options.
func connectionOptions(opts pubsub.ConnectOptions) []gonats.Option {
	keepAlive := opts.KeepAlive
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	return []gonats.Option{
		gonats.Name(opts.ClientID),
		gonats.PingInterval(keepAlive),
		gonats.MaxPingsOutstanding(maxPingsOut),
		gonats.Timeout(timeout),
		gonats.NoReconnect(),
	}
}

// Connect dials the server. The options are kept for Reconnect.
func (c *Client) Connect(opts pubsub.ConnectOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess != nil {
		c.teardownLocked()
	}
	c.opts = opts
	c.hasOpts = true
	return c.connectLocked()
}

// Reconnect closes the current connection, if any, and dials again.
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
	sess := &session{
		subs: make(map[string]*gonats.Subscription),
		quit: make(chan struct{}),
	}

	logger := c.logger
	opts := append(connectionOptions(c.opts),
		gonats.DisconnectErrHandler(func(_ *gonats.Conn, err error) {
			if logger != nil {
				logger.Warn("NATS connection lost", "url", c.url, "error", err)
			}
			c.push(sess, nil)
		}),
	)

	conn, err := gonats.Connect(c.url, opts...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	sess.conn = conn
	c.sess = sess
	return nil
}

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

// Subscribe delivers messages on subject to the delivery channel. NATS core
// subscriptions are at-most-once whatever qos is requested.
func (c *Client) Subscribe(subject string, qos byte) error {
	if subject == "" {
		return ErrInvalidSubject
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sess := c.sess
	if sess == nil || !sess.conn.IsConnected() {
		return ErrNotConnected
	}

	sub, err := sess.conn.Subscribe(subject, func(msg *gonats.Msg) {
		c.push(sess, &pubsub.Message{
			Topic:      msg.Subject,
			Payload:    msg.Data,
			QoS:        qos,
			ReceivedAt: time.Now(),
		})
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	if err := sess.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	sess.subs[subject] = sub
	return nil
}

// Unsubscribe removes the subscription on subject.
func (c *Client) Unsubscribe(subject string) error {
	if subject == "" {
		return ErrInvalidSubject
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess == nil || !c.sess.conn.IsConnected() {
		return ErrNotConnected
	}
	sub, ok := c.sess.subs[subject]
	if !ok {
		return fmt.Errorf("%w: not subscribed to %q", ErrUnsubscribeFailed, subject)
	}
	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsubscribeFailed, err)
	}
	delete(c.sess.subs, subject)
	return nil
}

// Disconnect closes the connection.
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
	c.sess.conn.Close()
	c.sess = nil
}

// IsConnected reports whether the current connection is up.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != nil && c.sess.conn.IsConnected()
}

// Deliveries returns the receive channel. It is never closed.
func (c *Client) Deliveries() <-chan *pubsub.Message {
	return c.deliveries
}

// Publish sends data on subject.
func (c *Client) Publish(subject string, data []byte) error {
	if subject == "" {
		return ErrInvalidSubject
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess == nil || !c.sess.conn.IsConnected() {
		return ErrNotConnected
	}
	return c.sess.conn.Publish(subject, data)
}

var _ pubsub.Transport = (*Client)(nil)
