package llm

import (
	"context"
	"time"
)

// RetryPolicy bounds the generation loop: MaxAttempts total attempts
// with a fixed delay between them.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy is one initial attempt plus two retries, 500ms apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Delay:       500 * time.Millisecond,
	}
}

// Wait sleeps for the configured delay, aborting early when the caller's
// context is cancelled so an abandoned request does not keep retrying.
func (p RetryPolicy) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
