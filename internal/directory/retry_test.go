package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFinder fails until succeedOn (1-based); 0 means never succeed.
type scriptedFinder struct {
	succeedOn int
	calls     int
}

var errProviderMissing = errors.New("provider not registered yet")

func (f *scriptedFinder) Resolve(_ context.Context, _ string, _ EntityQuery) (EndpointDescriptor, error) {
	f.calls++
	if f.succeedOn != 0 && f.calls >= f.succeedOn {
		return EndpointDescriptor{URI: "http://0.0.0.0:4030"}, nil
	}
	return EndpointDescriptor{}, errProviderMissing
}

// recordingWait records requested waits without sleeping.
type recordingWait struct {
	waits []time.Duration
}

func (w *recordingWait) wait(_ context.Context, d time.Duration) error {
	w.waits = append(w.waits, d)
	return nil
}

func TestResolveWithRetry_Exhausted(t *testing.T) {
	finder := &scriptedFinder{}
	w := &recordingWait{}
	policy := DefaultRetryPolicy()
	policy.Wait = w.wait

	_, err := ResolveWithRetry(context.Background(), finder, "addr", weightQuery(), policy)

	require.ErrorIs(t, err, ErrResolutionExhausted)
	assert.ErrorIs(t, err, errProviderMissing, "last failure should be wrapped")
	assert.Equal(t, 11, finder.calls, "first attempt plus 10 retries")
	require.Len(t, w.waits, 10)
	for _, d := range w.waits {
		assert.Equal(t, 5*time.Second, d)
	}
}

func TestResolveWithRetry_SucceedsOnThirdAttempt(t *testing.T) {
	finder := &scriptedFinder{succeedOn: 3}
	w := &recordingWait{}
	policy := DefaultRetryPolicy()
	policy.Wait = w.wait

	var attempts []int
	policy.OnAttempt = func(attempt int, _ error) {
		attempts = append(attempts, attempt)
	}

	ep, err := ResolveWithRetry(context.Background(), finder, "addr", weightQuery(), policy)

	require.NoError(t, err)
	assert.Equal(t, "http://0.0.0.0:4030", ep.URI)
	assert.Equal(t, 3, finder.calls)
	assert.Len(t, w.waits, 2)
	assert.Equal(t, []int{1, 2, 3}, attempts)
}

func TestResolveWithRetry_FirstAttemptSucceeds(t *testing.T) {
	finder := &scriptedFinder{succeedOn: 1}
	w := &recordingWait{}
	policy := DefaultRetryPolicy()
	policy.Wait = w.wait

	_, err := ResolveWithRetry(context.Background(), finder, "addr", weightQuery(), policy)

	require.NoError(t, err)
	assert.Equal(t, 1, finder.calls)
	assert.Empty(t, w.waits)
}

func TestResolveWithRetry_NoRetries(t *testing.T) {
	finder := &scriptedFinder{}
	policy := RetryPolicy{MaxRetries: 0, Interval: time.Hour}

	_, err := ResolveWithRetry(context.Background(), finder, "addr", weightQuery(), policy)

	assert.ErrorIs(t, err, ErrResolutionExhausted)
	assert.Equal(t, 1, finder.calls)
}

func TestResolveWithRetry_ContextCancelledWhileWaiting(t *testing.T) {
	finder := &scriptedFinder{}
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{
		MaxRetries: 10,
		Interval:   time.Hour,
		OnAttempt: func(int, error) {
			cancel()
		},
	}

	_, err := ResolveWithRetry(ctx, finder, "addr", weightQuery(), policy)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrResolutionExhausted)
	assert.Equal(t, 1, finder.calls)
}

func TestResolveWithRetry_RealTimer(t *testing.T) {
	finder := &scriptedFinder{succeedOn: 2}
	policy := RetryPolicy{MaxRetries: 1, Interval: 10 * time.Millisecond}

	start := time.Now()
	_, err := ResolveWithRetry(context.Background(), finder, "addr", weightQuery(), policy)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}
