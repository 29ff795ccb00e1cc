package resilience

import "time"

// Clock creates timers. Tests substitute a manual clock so backoff waits do
// not depend on wall-clock time.
type Clock interface {
	NewTimer(d time.Duration) Timer
}

// Timer is the subset of *time.Timer used by waits.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// RealClock is the Clock backed by the time package.
type RealClock struct{}

// NewTimer returns a running *time.Timer.
func (RealClock) NewTimer(d time.Duration) Timer {
	return realTimer{time.NewTimer(d)}
}

type realTimer struct{ t *time.Timer }

func (r realTimer) C() <-chan time.Time { return r.t.C }
func (r realTimer) Stop() bool          { return r.t.Stop() }
