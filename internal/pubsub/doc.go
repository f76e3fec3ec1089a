// Package pubsub defines the contract between the stream consumer and the
// publish/subscribe drivers.
//
// A Transport owns one broker connection. Messages arrive on the channel
// returned by Deliveries; a nil message on that channel signals that the
// connection was lost and the consumer should check IsConnected and decide
// whether to Reconnect.
//
// Drivers live under internal/infrastructure (mqtt, nats). Tests use
// scripted fakes.
package pubsub
