// Package metrics exposes consumer metrics in Prometheus format.
//
// Metrics owns a private registry (no global state) with counters for
// discovery attempts, deliveries and reconnects plus a gauge holding the
// current stream state. It implements stream.Observer so it can be attached
// directly to a consumer. Server serves the registry over HTTP.
package metrics
