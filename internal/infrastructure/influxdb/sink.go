package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/smart-trailer/internal/pubsub"
)

// WriteDelivery records one delivered stream unit.
//
// The payload is stored verbatim as a string field; its content is not
// interpreted. The write is non-blocking.
func (c *Client) WriteDelivery(entityID string, msg pubsub.Message) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(deliveryPoint(c.measurement, entityID, msg))
}

func deliveryPoint(measurement, entityID string, msg pubsub.Message) *write.Point {
	ts := msg.ReceivedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	return write.NewPoint(
		measurement,
		map[string]string{
			"topic":     msg.Topic,
			"entity_id": entityID,
		},
		map[string]interface{}{
			"payload": string(msg.Payload),
			"size":    len(msg.Payload),
		},
		ts,
	)
}
