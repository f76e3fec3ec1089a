package influxdb

import "errors"

var (
	// ErrNotConnected indicates the client is not connected to InfluxDB.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrWriteFailed wraps errors reported asynchronously by the write API.
	ErrWriteFailed = errors.New("influxdb: write failed")

	// ErrDisabled indicates the sink is disabled in config.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
