// Package influxdb forwards delivered trailer stream units to InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Each delivery
// becomes one point in the configured measurement, tagged with the
// topic and entity id and carrying the raw payload and its size.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteDelivery(entityID, msg)
//
// Writes are batched according to batch_size and flush_interval; write
// failures arrive through the SetOnError callback.
package influxdb
