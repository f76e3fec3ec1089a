package mqtt

import "fmt"

// Maximum payload size for MQTT messages (1MB).
const maxPayloadSize = 1 << 20

// Publish sends a message to topic on the current connection.
//
// The consumer never publishes; providers, tools and integration tests do.
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if err := validateQoS(qos); err != nil {
		return err
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	sess, err := c.current()
	if err != nil {
		return err
	}

	token := sess.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultOperationTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultOperationTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}
