package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nerrad567/smart-trailer/internal/pubsub"
	"github.com/nerrad567/smart-trailer/internal/stream"
)

const namespace = "smarttrailer"

// Result label values.
const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics holds the consumer's collectors.
type Metrics struct {
	registry *prometheus.Registry

	resolutionAttempts *prometheus.CounterVec
	streamState        prometheus.Gauge
	stateTransitions   *prometheus.CounterVec
	messagesDelivered  prometheus.Counter
	bytesDelivered     prometheus.Counter
	reconnects         *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutionAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolution_attempts_total",
			Help:      "Discovery attempts by pipeline stage and result.",
		}, []string{"stage", "result"}),
		streamState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "state",
			Help:      "Current stream consumer state (0 idle, 1 connected, 2 subscribed, 3 delivering, 4 reconnecting, 5 disconnected, 6 shutting down).",
		}),
		stateTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "state_transitions_total",
			Help:      "Stream consumer state transitions by target state.",
		}, []string{"state"}),
		messagesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "messages_delivered_total",
			Help:      "Messages handed to the delivery handler.",
		}),
		bytesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "bytes_delivered_total",
			Help:      "Payload bytes handed to the delivery handler.",
		}),
		reconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "reconnects_total",
			Help:      "Reconnect attempts by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.resolutionAttempts,
		m.streamState,
		m.stateTransitions,
		m.messagesDelivered,
		m.bytesDelivered,
		m.reconnects,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ResolutionAttempt records one discovery attempt for stage
// ("registry", "directory", "negotiation").
func (m *Metrics) ResolutionAttempt(stage string, err error) {
	m.resolutionAttempts.WithLabelValues(stage, result(err)).Inc()
}

// StateChanged implements stream.Observer.
func (m *Metrics) StateChanged(_, to stream.State) {
	m.streamState.Set(float64(to))
	m.stateTransitions.WithLabelValues(to.String()).Inc()
}

// MessageDelivered implements stream.Observer.
func (m *Metrics) MessageDelivered(msg pubsub.Message) {
	m.messagesDelivered.Inc()
	m.bytesDelivered.Add(float64(len(msg.Payload)))
}

// Reconnected implements stream.Observer.
func (m *Metrics) Reconnected(err error) {
	m.reconnects.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return resultFailure
	}
	return resultSuccess
}

var _ stream.Observer = (*Metrics)(nil)
