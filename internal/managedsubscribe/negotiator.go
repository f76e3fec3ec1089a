package managedsubscribe

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/nerrad567/smart-trailer/internal/digitaltwin"
	"github.com/nerrad567/smart-trailer/internal/infrastructure/rpc"
)

// Logger defines the logging interface used by the Negotiator.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}

// Negotiator requests subscription info from managed subscribe endpoints.
// It keeps no state between calls.
type Negotiator struct {
	dialOpts []grpc.DialOption
	logger   Logger
}

// NewNegotiator creates a Negotiator. Dial options are passed to rpc.Dial.
func NewNegotiator(opts ...grpc.DialOption) *Negotiator {
	return &Negotiator{
		dialOpts: opts,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the negotiator.
func (n *Negotiator) SetLogger(logger Logger) {
	n.logger = logger
}

// Negotiate asks the endpoint at address for a managed topic carrying
// entityID under the given constraints. Constraints are sent as given.
//
// Returns:
//   - SubscriptionInfo: broker URI and topic
//   - error: ErrNegotiationFailed (wrapped) on any failure; there is no retry
func (n *Negotiator) Negotiate(ctx context.Context, address, entityID string, constraints digitaltwin.Constraints) (SubscriptionInfo, error) {
	conn, err := rpc.Dial(address, n.dialOpts...)
	if err != nil {
		return SubscriptionInfo{}, fmt.Errorf("%w: %w", ErrNegotiationFailed, err)
	}
	defer conn.Close()

	n.logger.Debug("requesting subscription info",
		"endpoint", address,
		"entity_id", entityID,
		"constraints", constraints,
	)

	req := &SubscriptionInfoRequest{EntityID: entityID, Constraints: constraints}
	resp := new(SubscriptionInfoResponse)
	if err := conn.Invoke(ctx, getSubscriptionInfoMethod, req, resp); err != nil {
		return SubscriptionInfo{}, fmt.Errorf("%w: entity %q: %w", ErrNegotiationFailed, entityID, err)
	}

	switch {
	case resp.URI == "":
		return SubscriptionInfo{}, fmt.Errorf("%w: entity %q: response has no broker uri", ErrNegotiationFailed, entityID)
	case resp.Context == "":
		return SubscriptionInfo{}, fmt.Errorf("%w: entity %q: response has no topic", ErrNegotiationFailed, entityID)
	}

	n.logger.Info("subscription negotiated",
		"entity_id", entityID,
		"broker", resp.URI,
		"topic", resp.Context,
	)

	return SubscriptionInfo{BrokerAddress: resp.URI, Topic: resp.Context}, nil
}
