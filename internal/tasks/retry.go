package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ymport/internal/shared"
)

// Retrier wraps remote calls with bounded exponential backoff for transient
// conflict errors.
//
// MaxAttempts is the total number of calls made, not the number of retries
// after the first. Only errors wrapping [shared.ErrConflict] are retried;
// every other error kind propagates immediately.
type Retrier struct {
	MaxAttempts int
	BaseDelay   time.Duration

	sleep func(time.Duration)
}

// NewRetrier creates a Retrier with the given attempt budget and base delay.
// The wait before attempt n+1 is BaseDelay doubled n-1 times.
func NewRetrier(maxAttempts int, baseDelay time.Duration) *Retrier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay < 0 {
		baseDelay = 0
	}
	return &Retrier{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		sleep:       time.Sleep,
	}
}

// Do invokes op, retrying conflict failures until the attempt budget is
// exhausted. The backoff wait is a plain blocking sleep; cancellation is
// only observed at attempt boundaries, never mid-wait.
func (r *Retrier) Do(ctx context.Context, op func() error) error {
	var err error

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err = op(); err == nil {
			return nil
		}

		if !errors.Is(err, shared.ErrConflict) {
			return err
		}

		if attempt == r.MaxAttempts {
			break
		}

		r.sleep(r.backoff(attempt))
	}

	return fmt.Errorf("giving up after %d attempts: %w", r.MaxAttempts, err)
}

// backoff returns the wait applied after the given attempt number,
// BaseDelay × 2^(attempt-1).
func (r *Retrier) backoff(attempt int) time.Duration {
	d := r.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}
