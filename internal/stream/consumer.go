package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/smart-trailer/internal/pubsub"
)

// Handler processes one delivered message. Errors are logged and do not
// stop the consumer.
type Handler func(ctx context.Context, msg pubsub.Message) error

// Logger defines the logging interface used by the Consumer.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Observer receives consumer events. Calls are made from the goroutine that
// runs Start or Run and must not block.
type Observer interface {
	StateChanged(from, to State)
	MessageDelivered(msg pubsub.Message)
	Reconnected(err error)
}

type noopObserver struct{}

func (noopObserver) StateChanged(State, State)       {}
func (noopObserver) MessageDelivered(pubsub.Message) {}
func (noopObserver) Reconnected(error)               {}

// Consumer streams messages from one topic.
//
// Thread Safety:
//   - Start and Run must be called from a single goroutine, in that order.
//   - Stop and State are safe to call from any goroutine.
type Consumer struct {
	transport pubsub.Transport
	topic     string
	handler   Handler
	cfg       Config
	clientID  string

	state atomic.Int32

	stop         chan struct{}
	stopOnce     sync.Once
	teardownOnce sync.Once
	teardownErr  error

	// resubscribeErrs collects non-fatal re-subscribe failures; owned by Run.
	resubscribeErrs []error

	logger   Logger
	observer Observer
	onError  func(error)
}

// NewConsumer creates a consumer for topic. The client id is fixed here as
// cfg.ClientIDPrefix followed by a random UUID.
func NewConsumer(transport pubsub.Transport, topic string, handler Handler, cfg Config) *Consumer {
	clientID := uuid.NewString()
	if cfg.ClientIDPrefix != "" {
		clientID = cfg.ClientIDPrefix + "-" + clientID
	}

	return &Consumer{
		transport: transport,
		topic:     topic,
		handler:   handler,
		cfg:       cfg,
		clientID:  clientID,
		stop:      make(chan struct{}),
		logger:    noopLogger{},
		observer:  noopObserver{},
	}
}

// SetLogger sets the logger for the consumer.
func (c *Consumer) SetLogger(logger Logger) {
	c.logger = logger
}

// SetObserver sets the event observer.
func (c *Consumer) SetObserver(o Observer) {
	c.observer = o
}

// SetOnError sets a hook called for failures that do not end the consumer,
// such as a failed re-subscribe.
func (c *Consumer) SetOnError(fn func(error)) {
	c.onError = fn
}

// ClientID returns the broker client id used by this consumer.
func (c *Consumer) ClientID() string {
	return c.clientID
}

// Topic returns the subscribed topic.
func (c *Consumer) Topic() string {
	return c.topic
}

// State returns the current lifecycle state.
func (c *Consumer) State() State {
	return State(c.state.Load())
}

func (c *Consumer) setState(to State) {
	from := State(c.state.Swap(int32(to)))
	if from == to {
		return
	}
	c.logger.Debug("stream state changed", "from", from.String(), "to", to.String(), "topic", c.topic)
	c.observer.StateChanged(from, to)
}

// Start connects and subscribes. Either failure is returned as a
// *TransportError and leaves the consumer Disconnected.
func (c *Consumer) Start() error {
	if c.State() != Idle {
		return fmt.Errorf("stream: start in state %s", c.State())
	}

	if err := c.transport.Connect(c.connectOptions()); err != nil {
		c.setState(Disconnected)
		return transportErr(OpConnect, "", err)
	}
	c.setState(Connected)
	c.logger.Info("connected to broker", "client_id", c.clientID)

	if err := c.transport.Subscribe(c.topic, c.cfg.QoS); err != nil {
		c.setState(Disconnected)
		subErr := transportErr(OpSubscribe, c.topic, err)
		if derr := c.transport.Disconnect(); derr != nil {
			return errors.Join(subErr, transportErr(OpDisconnect, "", derr))
		}
		return subErr
	}
	c.setState(Subscribed)
	c.logger.Info("subscribed", "topic", c.topic, "qos", c.cfg.QoS)

	return nil
}

func (c *Consumer) connectOptions() pubsub.ConnectOptions {
	return pubsub.ConnectOptions{
		ClientID:       c.clientID,
		KeepAlive:      c.cfg.KeepAlive,
		CleanSession:   c.cfg.CleanSession,
		Will:           c.cfg.Will,
		ConnectTimeout: c.cfg.ConnectTimeout,
	}
}

// Stop asks Run to finish. It is safe to call more than once and from any
// goroutine.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// Run delivers messages until ctx is cancelled, Stop is called or a
// reconnect fails.
//
// Returns:
//   - nil after a clean shutdown
//   - a *TransportError (OpReconnect) if the single reconnect attempt failed
//   - failed re-subscribes and teardown failures, joined
func (c *Consumer) Run(ctx context.Context) error {
	if c.State() != Subscribed {
		return ErrNotStarted
	}

	watcherDone := make(chan struct{})
	defer close(watcherDone)
	go func() {
		select {
		case <-ctx.Done():
			c.Stop()
		case <-watcherDone:
		}
	}()

	c.setState(Delivering)
	deliveries := c.transport.Deliveries()

	for {
		// Stop takes priority over pending deliveries.
		select {
		case <-c.stop:
			return c.shutdown()
		default:
		}

		select {
		case <-c.stop:
			return c.shutdown()

		case msg, ok := <-deliveries:
			if !ok {
				c.setState(Disconnected)
				return errors.Join(append(c.resubscribeErrs, transportErr(OpReceive, c.topic, ErrDeliveriesClosed))...)
			}
			if msg != nil {
				c.deliver(ctx, *msg)
				continue
			}
			if c.transport.IsConnected() {
				continue
			}

			if err := c.reconnect(); err != nil {
				c.setState(Disconnected)
				return errors.Join(append(c.resubscribeErrs, err)...)
			}
		}
	}
}

// reconnect performs the single reconnect attempt for one connection loss.
// A failed re-subscribe is recorded but not returned.
func (c *Consumer) reconnect() error {
	c.setState(Reconnecting)
	c.logger.Warn("connection lost, reconnecting", "topic", c.topic)

	if err := c.transport.Reconnect(); err != nil {
		c.observer.Reconnected(err)
		c.logger.Error("reconnect failed", "topic", c.topic, "error", err)
		return transportErr(OpReconnect, "", err)
	}
	c.observer.Reconnected(nil)
	c.setState(Connected)
	c.logger.Info("reconnected to broker", "client_id", c.clientID)

	if err := c.transport.Subscribe(c.topic, c.cfg.QoS); err != nil {
		resubErr := transportErr(OpSubscribe, c.topic, err)
		c.resubscribeErrs = append(c.resubscribeErrs, resubErr)
		c.logger.Error("re-subscribe failed", "topic", c.topic, "error", err)
		if c.onError != nil {
			c.onError(resubErr)
		}
	} else {
		c.setState(Subscribed)
	}

	c.setState(Delivering)
	return nil
}

func (c *Consumer) deliver(ctx context.Context, msg pubsub.Message) {
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now()
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("stream handler panic recovered",
				"topic", msg.Topic,
				"panic", r,
			)
		}
	}()

	c.logger.Info("message received", "topic", msg.Topic, "payload", string(msg.Payload))
	c.observer.MessageDelivered(msg)

	if c.handler == nil {
		return
	}
	if err := c.handler(ctx, msg); err != nil {
		c.logger.Warn("stream handler returned error",
			"topic", msg.Topic,
			"error", err,
		)
	}
}

func (c *Consumer) shutdown() error {
	c.setState(ShuttingDown)
	errs := c.resubscribeErrs
	if err := c.teardown(); err != nil {
		errs = append(errs, err)
	}
	c.logger.Info("stream consumer stopped", "topic", c.topic)
	return errors.Join(errs...)
}

// teardown unsubscribes then disconnects if the transport is still
// connected. It runs at most once.
func (c *Consumer) teardown() error {
	c.teardownOnce.Do(func() {
		if !c.transport.IsConnected() {
			return
		}
		c.logger.Debug("disconnecting", "topic", c.topic)

		var errs []error
		if err := c.transport.Unsubscribe(c.topic); err != nil {
			errs = append(errs, transportErr(OpUnsubscribe, c.topic, err))
		}
		if err := c.transport.Disconnect(); err != nil {
			errs = append(errs, transportErr(OpDisconnect, "", err))
		}
		c.teardownErr = errors.Join(errs...)
	})
	return c.teardownErr
}
