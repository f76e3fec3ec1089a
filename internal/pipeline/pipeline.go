package pipeline

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"

	"github.com/nerrad567/smart-trailer/internal/digitaltwin"
	"github.com/nerrad567/smart-trailer/internal/directory"
	"github.com/nerrad567/smart-trailer/internal/infrastructure/config"
	"github.com/nerrad567/smart-trailer/internal/infrastructure/mdns"
	"github.com/nerrad567/smart-trailer/internal/infrastructure/mqtt"
	"github.com/nerrad567/smart-trailer/internal/infrastructure/nats"
	"github.com/nerrad567/smart-trailer/internal/managedsubscribe"
	"github.com/nerrad567/smart-trailer/internal/pubsub"
	"github.com/nerrad567/smart-trailer/internal/registry"
	"github.com/nerrad567/smart-trailer/internal/stream"
)

// Stage labels passed to Recorder.
const (
	StageRegistry    = "registry"
	StageDirectory   = "directory"
	StageNegotiation = "negotiation"
)

// Logger is the logging surface used by the pipeline and handed down to
// every stage.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Recorder observes discovery attempts and the stream lifecycle.
// *metrics.Metrics implements it.
type Recorder interface {
	stream.Observer
	ResolutionAttempt(stage string, err error)
}

// Sink receives every delivered message. *influxdb.Client implements it.
type Sink interface {
	WriteDelivery(entityID string, msg pubsub.Message)
}

// Locator finds the registry when no address is configured.
type Locator interface {
	Locate(ctx context.Context) (string, error)
}

// Target is the outcome of discovery.
type Target struct {
	Directory    string
	Endpoint     directory.EndpointDescriptor
	Subscription managedsubscribe.SubscriptionInfo
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDialOptions adds gRPC dial options to every discovery call.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(p *Pipeline) {
		p.dialOpts = append(p.dialOpts, opts...)
	}
}

// WithLocator overrides the mDNS registry locator.
func WithLocator(l Locator) Option {
	return func(p *Pipeline) {
		p.locator = l
	}
}

// WithTransportFactory overrides NewTransport.
func WithTransportFactory(f TransportFactory) Option {
	return func(p *Pipeline) {
		p.newTransport = f
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithSink forwards deliveries to s.
func WithSink(s Sink) Option {
	return func(p *Pipeline) {
		p.sink = s
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithRetryWait replaces the timer used between directory attempts.
func WithRetryWait(wait func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Pipeline) {
		p.retryWait = wait
	}
}

// Pipeline runs discovery and then consumes the negotiated stream.
type Pipeline struct {
	cfg *config.Config

	dialOpts     []grpc.DialOption
	locator      Locator
	newTransport TransportFactory
	recorder     Recorder
	sink         Sink
	logger       Logger
	retryWait    func(ctx context.Context, d time.Duration) error
}

// New creates a pipeline for cfg. cfg is expected to have passed Validate.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:          cfg,
		newTransport: NewTransport,
		logger:       noopLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.locator == nil && cfg.Registry.MDNS.Enabled {
		l := mdns.NewLocator(cfg.Registry.MDNS.Service, cfg.Registry.MDNS.Domain, cfg.Registry.MDNS.Timeout)
		l.SetLogger(p.logger)
		p.locator = l
	}
	return p
}

// Run discovers the stream and consumes it until ctx is cancelled or the
// consumer ends.
func (p *Pipeline) Run(ctx context.Context) error {
	target, err := p.Discover(ctx)
	if err != nil {
		return err
	}
	return p.Consume(ctx, target.Subscription)
}

// Discover runs the registry, directory and managed subscribe stages.
func (p *Pipeline) Discover(ctx context.Context) (Target, error) {
	registryAddr, err := p.registryAddress(ctx)
	if err != nil {
		return Target{}, err
	}

	resolver := registry.NewResolver(p.dialOpts...)
	resolver.SetLogger(p.logger)

	location, err := resolver.Resolve(ctx, registryAddr, p.descriptor())
	p.record(StageRegistry, err)
	if err != nil {
		return Target{}, fmt.Errorf("resolving digital twin service: %w", err)
	}
	p.logger.Info("digital twin service resolved", "address", location.Address)

	entities := directory.NewResolver(p.dialOpts...)
	entities.SetLogger(p.logger)

	query := directory.EntityQuery{
		EntityID:   p.cfg.Entity.ID,
		Protocol:   p.cfg.Entity.Protocol,
		Operations: p.cfg.Entity.Operations,
	}
	policy := directory.RetryPolicy{
		MaxRetries: p.cfg.Entity.Retry.MaxRetries,
		Interval:   p.cfg.Entity.Retry.Interval,
		Wait:       p.retryWait,
		OnAttempt: func(attempt int, err error) {
			p.record(StageDirectory, err)
			if err != nil {
				p.logger.Warn("entity lookup failed",
					"entity_id", query.EntityID,
					"attempt", attempt,
					"max_attempts", p.cfg.Entity.Retry.MaxRetries+1,
					"error", err,
				)
			}
		},
	}

	endpoint, err := directory.ResolveWithRetry(ctx, entities, location.Address, query, policy)
	if err != nil {
		return Target{}, fmt.Errorf("resolving entity %q: %w", query.EntityID, err)
	}
	p.logger.Info("entity endpoint resolved",
		"entity_id", query.EntityID,
		"uri", endpoint.URI,
		"context", endpoint.Context,
	)

	negotiator := managedsubscribe.NewNegotiator(p.dialOpts...)
	negotiator.SetLogger(p.logger)

	constraints := p.constraints()
	sub, err := negotiator.Negotiate(ctx, endpoint.URI, query.EntityID, constraints)
	p.record(StageNegotiation, err)
	if err != nil {
		return Target{}, fmt.Errorf("negotiating subscription: %w", err)
	}
	if freq, ok := constraints.Frequency(); ok {
		p.logger.Info("managed subscription negotiated",
			"entity_id", query.EntityID,
			"topic", sub.Topic,
			"frequency", freq,
			"constraints", len(constraints),
		)
	}

	return Target{
		Directory:    location.Address,
		Endpoint:     endpoint,
		Subscription: sub,
	}, nil
}

// Consume connects to the negotiated broker and streams the topic.
func (p *Pipeline) Consume(ctx context.Context, sub managedsubscribe.SubscriptionInfo) error {
	transport, err := p.newTransport(sub.BrokerAddress, p.cfg.Stream.BufferSize)
	if err != nil {
		return err
	}
	switch t := transport.(type) {
	case *mqtt.Client:
		t.SetLogger(p.logger)
	case *nats.Client:
		t.SetLogger(p.logger)
	}

	consumer := stream.NewConsumer(transport, sub.Topic, p.handle, p.streamConfig())
	consumer.SetLogger(p.logger)
	if p.recorder != nil {
		consumer.SetObserver(p.recorder)
	}
	consumer.SetOnError(func(err error) {
		p.logger.Error("stream error", "topic", sub.Topic, "error", err)
	})

	p.logger.Info("connecting to broker",
		"broker", sub.BrokerAddress,
		"topic", sub.Topic,
		"client_id", consumer.ClientID(),
	)
	if err := consumer.Start(); err != nil {
		return fmt.Errorf("starting stream consumer: %w", err)
	}

	return consumer.Run(ctx)
}

func (p *Pipeline) handle(_ context.Context, msg pubsub.Message) error {
	if p.sink != nil {
		p.sink.WriteDelivery(p.cfg.Entity.ID, msg)
	}
	return nil
}

func (p *Pipeline) registryAddress(ctx context.Context) (string, error) {
	if p.cfg.Registry.Address != "" {
		return p.cfg.Registry.Address, nil
	}
	if p.locator == nil {
		return "", ErrNoRegistry
	}

	addr, err := p.locator.Locate(ctx)
	if err != nil {
		return "", fmt.Errorf("locating registry: %w", err)
	}
	p.logger.Info("registry located via mdns", "address", addr)
	return addr, nil
}

func (p *Pipeline) descriptor() registry.ServiceDescriptor {
	r := p.cfg.Registry
	return registry.ServiceDescriptor{
		Namespace:              r.Namespace,
		Name:                   r.Name,
		Version:                r.Version,
		CommunicationKind:      r.CommunicationKind,
		CommunicationReference: r.CommunicationReference,
	}
}

// constraints puts the frequency first, then any configured extras as-is.
func (p *Pipeline) constraints() digitaltwin.Constraints {
	cs := digitaltwin.Constraints{digitaltwin.FrequencyConstraint(p.cfg.Frequency())}
	return append(cs, p.cfg.Subscription.Constraints...)
}

func (p *Pipeline) streamConfig() stream.Config {
	s := p.cfg.Stream
	cfg := stream.Config{
		ClientIDPrefix: s.ClientIDPrefix,
		KeepAlive:      s.KeepAlive,
		CleanSession:   s.CleanSession,
		ConnectTimeout: s.ConnectTimeout,
		QoS:            byte(s.QoS),
	}
	if s.Will.Enabled {
		cfg.Will = &pubsub.Message{
			Topic:    s.Will.Topic,
			Payload:  []byte(s.Will.Payload),
			QoS:      byte(s.Will.QoS),
			Retained: s.Will.Retained,
		}
	}
	return cfg
}

func (p *Pipeline) record(stage string, err error) {
	if p.recorder != nil {
		p.recorder.ResolutionAttempt(stage, err)
	}
}
