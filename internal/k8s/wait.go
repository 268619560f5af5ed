package k8s

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrWaitTimeout reports that an awaited condition did not hold within its
// bound. Distinguishable from other failures so callers can report
// readiness timeouts as their own error kind.
var ErrWaitTimeout = errors.New("timed out waiting for condition")

// Condition is polled until it reports true. A non-nil error aborts the wait
// immediately.
type Condition func(ctx context.Context) (bool, error)

var errNotYet = errors.New("condition not yet met")

// PollUntil polls condition with exponential backoff until it holds, the
// timeout elapses, or ctx is cancelled. The description names the awaited
// condition in errors.
func PollUntil(ctx context.Context, description string, timeout time.Duration, condition Condition) error {
	return pollUntil(ctx, description, 2*time.Second, timeout, condition)
}

func pollUntil(ctx context.Context, description string, initialInterval, timeout time.Duration, condition Condition) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = timeout

	err := backoff.Retry(func() error {
		ok, err := condition(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errNotYet
		}
		return nil
	}, backoff.WithContext(bo, ctx))

	if err == nil {
		return nil
	}
	if errors.Is(err, errNotYet) {
		return fmt.Errorf("%w: %s (after %s)", ErrWaitTimeout, description, timeout)
	}
	return fmt.Errorf("waiting for %s: %w", description, err)
}
