// Package mqtt provides the MQTT transport used by the stream consumer.
//
// Client implements pubsub.Transport on top of paho.mqtt.golang. It manages
// exactly one broker connection at a time:
//   - Connect with client id, keep-alive, session persistence and last will
//   - Subscriptions whose messages are pushed onto a delivery channel
//   - A nil delivery when the broker connection is lost
//   - Reconnect, which tears the old connection down before dialling again
//
// paho's own auto-reconnect is disabled; reconnect policy belongs to the
// consumer.
//
// # Usage
//
//	client := mqtt.New("tcp://0.0.0.0:1883")
//	if err := client.Connect(pubsub.ConnectOptions{ClientID: id, KeepAlive: 30 * time.Second}); err != nil {
//	    return err
//	}
//	defer client.Disconnect()
//
//	if err := client.Subscribe(topic, pubsub.AtLeastOnce); err != nil {
//	    return err
//	}
//	for msg := range client.Deliveries() {
//	    ...
//	}
package mqtt
