package directory

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nerrad567/smart-trailer/internal/infrastructure/rpc"
)

// Logger defines the logging interface used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}

// Resolver queries the digital twin directory.
//
// Thread Safety: safe for concurrent use; each call dials its own connection.
type Resolver struct {
	dialOpts []grpc.DialOption
	logger   Logger
}

// NewResolver creates a Resolver. Dial options are passed to rpc.Dial for
// every request.
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

// Resolve finds the endpoint of q.EntityID that satisfies q's protocol and
// operations, asking the directory at directoryAddress.
//
// Returns:
//   - EndpointDescriptor: the first matching endpoint in directory order
//   - error: ErrNoEntity, ErrNoMatchingEndpoint or ErrUnavailable (wrapped)
func (r *Resolver) Resolve(ctx context.Context, directoryAddress string, q EntityQuery) (EndpointDescriptor, error) {
	r.logger.Info("sending find_by_id request",
		"entity_id", q.EntityID,
		"directory", directoryAddress,
	)

	conn, err := rpc.Dial(directoryAddress, r.dialOpts...)
	if err != nil {
		return EndpointDescriptor{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer conn.Close()

	resp := new(FindByIDResponse)
	if err := conn.Invoke(ctx, findByIDMethod, &FindByIDRequest{ID: q.EntityID}, resp); err != nil {
		if status.Code(err) == codes.NotFound {
			return EndpointDescriptor{}, fmt.Errorf("%w: %q", ErrNoEntity, q.EntityID)
		}
		return EndpointDescriptor{}, fmt.Errorf("%w: find_by_id %q: %w", ErrUnavailable, q.EntityID, err)
	}

	info := resp.EntityAccessInfo
	if info == nil {
		return EndpointDescriptor{}, fmt.Errorf("%w: %q", ErrNoEntity, q.EntityID)
	}
	r.logger.Debug("received find_by_id response",
		"entity_id", q.EntityID,
		"endpoints", len(info.Endpoints),
	)

	ep, ok := SelectEndpoint(info.Endpoints, q.Protocol, q.Operations)
	if !ok {
		return EndpointDescriptor{}, fmt.Errorf("%w: entity %q, protocol %q, operations %v",
			ErrNoMatchingEndpoint, q.EntityID, q.Protocol, q.Operations)
	}

	r.logger.Info("found matching endpoint", "entity_id", q.EntityID, "uri", ep.URI)
	return ep, nil
}

// Register records entities with the directory at directoryAddress.
// Providers call this once their own endpoint is serving.
func (r *Resolver) Register(ctx context.Context, directoryAddress string, entities ...EntityAccessInfo) error {
	conn, err := rpc.Dial(directoryAddress, r.dialOpts...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegisterFailed, err)
	}
	defer conn.Close()

	req := &RegisterRequest{EntityAccessInfoList: entities}
	if err := conn.Invoke(ctx, registerMethod, req, new(RegisterResponse)); err != nil {
		return fmt.Errorf("%w: %w", ErrRegisterFailed, err)
	}

	for _, e := range entities {
		r.logger.Info("entity registered", "entity_id", e.ID, "endpoints", len(e.Endpoints))
	}
	return nil
}

// SelectEndpoint returns the first endpoint whose protocol equals protocol
// and whose operations are a superset of operations.
func SelectEndpoint(endpoints []EndpointDescriptor, protocol string, operations []string) (EndpointDescriptor, bool) {
	for _, ep := range endpoints {
		if ep.Protocol == protocol && IsSubset(operations, ep.Operations) {
			return ep, true
		}
	}
	return EndpointDescriptor{}, false
}

// IsSubset reports whether every member of subset appears in superset.
// The empty set is a subset of everything.
func IsSubset(subset, superset []string) bool {
	for _, want := range subset {
		found := false
		for _, have := range superset {
			if want == have {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
