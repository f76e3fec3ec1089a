package directory

import (
	"context"
	"fmt"
	"time"
)

// Retry defaults used by the smart trailer consumer.
const (
	DefaultMaxRetries    = 10
	DefaultRetryInterval = 5 * time.Second
)

// EndpointFinder resolves an entity query against a directory. *Resolver
// implements it.
type EndpointFinder interface {
	Resolve(ctx context.Context, directoryAddress string, q EntityQuery) (EndpointDescriptor, error)
}

// RetryPolicy bounds ResolveWithRetry.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// Interval is the fixed wait between attempts.
	Interval time.Duration

	// Wait blocks for d or until ctx is done. Nil uses a timer.
	Wait func(ctx context.Context, d time.Duration) error

	// OnAttempt, if set, is called after every attempt with its 1-based
	// number and outcome (nil on success).
	OnAttempt func(attempt int, err error)
}

// DefaultRetryPolicy returns 10 retries at 5 second intervals.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: DefaultMaxRetries,
		Interval:   DefaultRetryInterval,
	}
}

// ResolveWithRetry calls finder until it succeeds or the policy's retries
// are spent. Each attempt is a fresh query; the interval is constant.
//
// Returns:
//   - EndpointDescriptor: the endpoint from the first successful attempt
//   - error: ErrResolutionExhausted wrapping the last failure, or the
//     context error if ctx ends while waiting
func ResolveWithRetry(ctx context.Context, finder EndpointFinder, directoryAddress string, q EntityQuery, policy RetryPolicy) (EndpointDescriptor, error) {
	wait := policy.Wait
	if wait == nil {
		wait = sleep
	}

	var (
		lastErr error
		attempt int
	)
	for attempt = 1; ; attempt++ {
		ep, err := finder.Resolve(ctx, directoryAddress, q)
		if policy.OnAttempt != nil {
			policy.OnAttempt(attempt, err)
		}
		if err == nil {
			return ep, nil
		}
		lastErr = err

		retries := attempt - 1
		if retries >= policy.MaxRetries {
			break
		}

		if err := wait(ctx, policy.Interval); err != nil {
			return EndpointDescriptor{}, fmt.Errorf("directory: waiting to retry %q: %w", q.EntityID, err)
		}
	}

	return EndpointDescriptor{}, fmt.Errorf("%w: %d attempts for %q: %w",
		ErrResolutionExhausted, attempt, q.EntityID, lastErr)
}

// sleep waits for d unless ctx ends first.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
