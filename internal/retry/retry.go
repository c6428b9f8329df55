package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPermanent marks an error that retrying cannot fix
var ErrPermanent = errors.New("permanent failure")

// Permanent wraps err so Execute gives up immediately.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// Policy retries a write with growing delays between attempts
type Policy struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
}

// NewPolicy creates a retry policy. maxAttempts below 1 is treated as 1.
func NewPolicy(maxAttempts int, initialDelay time.Duration) *Policy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Policy{
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		maxDelay:     30 * time.Second,
		sleep:        sleepCtx,
	}
}

// Execute runs fn until it succeeds, returns a permanent error, the attempts
// run out, or ctx is done.
func (p *Policy) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	delay := p.initialDelay

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrPermanent) {
			return err
		}

		lastErr = err

		if attempt < p.maxAttempts {
			if err := p.sleep(ctx, delay); err != nil {
				return fmt.Errorf("retry interrupted after %d attempts: %w", attempt, lastErr)
			}
			delay = time.Duration(float64(delay) * 1.5)
			if delay > p.maxDelay {
				delay = p.maxDelay
			}
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", p.maxAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
