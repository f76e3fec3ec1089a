// Package nats provides a NATS implementation of pubsub.Transport for
// brokers addressed with nats:// URIs.
//
// NATS core subscriptions are at-most-once and the protocol has no last
// will or persistent session, so ConnectOptions.Will and CleanSession are
// ignored and the requested QoS is not enforced. The client's built-in
// reconnect is disabled; a lost connection is reported as a nil delivery
// exactly like the MQTT driver.
package nats
