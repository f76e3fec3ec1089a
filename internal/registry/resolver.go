package registry

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nerrad567/smart-trailer/internal/infrastructure/rpc"
)

// Logger defines the logging interface used by the Resolver.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}

// Resolver looks services up in the service registry.
//
// Thread Safety: a Resolver holds no per-call state and is safe for
// concurrent use.
type Resolver struct {
	dialOpts []grpc.DialOption
	logger   Logger
}

// NewResolver creates a Resolver. Dial options are passed to rpc.Dial for
// every lookup.
func NewResolver(opts ...grpc.DialOption) *Resolver {
	return &Resolver{
		dialOpts: opts,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the resolver.
func (r *Resolver) SetLogger(logger Logger) {
	r.logger = logger
}

// Resolve asks the registry at registryAddress for the service described by d.
//
// Returns:
//   - ServiceLocation: the registered service URI
//   - error: ErrNotFound, ErrMismatch or ErrUnavailable (wrapped)
func (r *Resolver) Resolve(ctx context.Context, registryAddress string, d ServiceDescriptor) (ServiceLocation, error) {
	conn, err := rpc.Dial(registryAddress, r.dialOpts...)
	if err != nil {
		return ServiceLocation{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer conn.Close()

	r.logger.Debug("sending discover request",
		"registry", registryAddress,
		"service", d.String(),
	)

	resp, err := discover(ctx, conn, &DiscoverRequest{
		Namespace: d.Namespace,
		Name:      d.Name,
		Version:   d.Version,
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ServiceLocation{}, fmt.Errorf("%w: namespace %q, name %q, version %q",
				ErrNotFound, d.Namespace, d.Name, d.Version)
		}
		return ServiceLocation{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	svc := resp.Service
	if svc == nil {
		return ServiceLocation{}, fmt.Errorf("%w: namespace %q, name %q, version %q",
			ErrNotFound, d.Namespace, d.Name, d.Version)
	}

	if mismatched(svc, d) {
		return ServiceLocation{}, fmt.Errorf("%w: %s has communication kind %q and reference %q, want %q and %q",
			ErrMismatch, d.String(), svc.CommunicationKind, svc.CommunicationReference,
			d.CommunicationKind, d.CommunicationReference)
	}

	r.logger.Info("service discovered", "service", d.String(), "uri", svc.URI)

	return ServiceLocation{Address: svc.URI}, nil
}

// mismatched reports whether the registered service differs from d on both
// communication axes. A match on either axis is accepted.
func mismatched(svc *ServiceMetadata, d ServiceDescriptor) bool {
	return svc.CommunicationKind != d.CommunicationKind &&
		svc.CommunicationReference != d.CommunicationReference
}
