package mqtt

import "fmt"

// Subscribe routes messages on topic to the delivery channel.
//
// Topics can include MQTT wildcards (+ and #). Subscriptions belong to the
// current connection; after Reconnect the caller subscribes again.
//
// Parameters:
//   - topic: The topic filter to subscribe to
//   - qos: Maximum QoS level for received messages (0, 1, or 2)
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Subscribe(topic string, qos byte) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if err := validateQoS(qos); err != nil {
		return err
	}

	sess, err := c.current()
	if err != nil {
		return err
	}

	token := sess.client.Subscribe(topic, qos, c.messageHandler(sess))
	if !token.WaitTimeout(defaultOperationTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultOperationTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	return nil
}

// Unsubscribe stops delivery for topic. Messages already queued on the
// delivery channel are still received.
func (c *Client) Unsubscribe(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}

	sess, err := c.current()
	if err != nil {
		return err
	}

	token := sess.client.Unsubscribe(topic)
	if !token.WaitTimeout(defaultOperationTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrUnsubscribeFailed, defaultOperationTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsubscribeFailed, err)
	}

	return nil
}
