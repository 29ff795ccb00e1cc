package resilience

import (
	"context"
	"time"
)

// DefaultBackoffInterval is the reconnect delay used when none is configured.
const DefaultBackoffInterval = 5 * time.Second

// Waiter suspends the caller between attempts.
type Waiter interface {
	// Wait blocks for the backoff interval. It returns ctx.Err() if the
	// context is cancelled first, nil otherwise.
	Wait(ctx context.Context) error
}

// FixedBackoff waits the same interval before every retry.
type FixedBackoff struct {
	interval time.Duration
	clock    Clock
}

// BackoffOption configures a FixedBackoff.
type BackoffOption func(*FixedBackoff)

// WithClock replaces the real clock, typically with a manual test clock.
func WithClock(c Clock) BackoffOption {
	return func(b *FixedBackoff) { b.clock = c }
}

// NewFixedBackoff creates a FixedBackoff. Non-positive intervals fall back
// to DefaultBackoffInterval.
func NewFixedBackoff(interval time.Duration, opts ...BackoffOption) *FixedBackoff {
	if interval <= 0 {
		interval = DefaultBackoffInterval
	}
	b := &FixedBackoff{interval: interval, clock: RealClock{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Interval returns the delay applied before every retry.
func (b *FixedBackoff) Interval() time.Duration {
	return b.interval
}

// Wait blocks for the fixed interval or until ctx is done.
func (b *FixedBackoff) Wait(ctx context.Context) error {
	return Sleep(ctx, b.clock, b.interval)
}

// Sleep blocks for d on clock, returning early with ctx.Err() when ctx is
// cancelled. A context that is already done returns immediately.
func Sleep(ctx context.Context, clock Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := clock.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}

var _ Waiter = (*FixedBackoff)(nil)
