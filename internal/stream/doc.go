// Package stream implements the resilient streaming consumer.
//
// A Consumer connects to a broker through a pubsub.Transport, subscribes to
// one topic and hands every received message to a Handler until it is
// stopped. When the transport reports a lost connection the consumer makes
// exactly one reconnect attempt for that loss; on success it re-subscribes
// to the same topic and keeps delivering, on failure it ends in the
// Disconnected state.
//
// # Lifecycle
//
//	Idle → Connected → Subscribed → Delivering ⇄ Reconnecting
//	                                     ↓              ↓
//	                                ShuttingDown   Disconnected
//
// Start performs the connect and subscribe steps. Run owns the receive loop
// and blocks until the context is cancelled, Stop is called, or a reconnect
// fails. Cancellation unblocks the loop even while it is waiting for a
// message; the consumer then unsubscribes and disconnects exactly once.
//
// # Usage
//
//	c := stream.NewConsumer(transport, topic, handler, stream.DefaultConfig())
//	if err := c.Start(); err != nil {
//	    return err
//	}
//	return c.Run(ctx)
package stream
