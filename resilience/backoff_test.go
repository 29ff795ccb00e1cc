package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// manualClock hands out timers that fire only when the test says so.
type manualClock struct {
	mu      sync.Mutex
	created chan time.Duration
	timers  []*manualTimer
}

func newManualClock() *manualClock {
	return &manualClock{created: make(chan time.Duration, 16)}
}

func (c *manualClock) NewTimer(d time.Duration) Timer {
	t := &manualTimer{ch: make(chan time.Time, 1)}
	c.mu.Lock()
	c.timers = append(c.timers, t)
	c.mu.Unlock()
	c.created <- d
	return t
}

func (c *manualClock) fireLast() {
	c.mu.Lock()
	t := c.timers[len(c.timers)-1]
	c.mu.Unlock()
	t.ch <- time.Now()
}

type manualTimer struct {
	ch      chan time.Time
	stopped bool
}

func (t *manualTimer) C() <-chan time.Time { return t.ch }
func (t *manualTimer) Stop() bool {
	t.stopped = true
	return true
}

func TestNewFixedBackoff_Defaults(t *testing.T) {
	if got := NewFixedBackoff(0).Interval(); got != DefaultBackoffInterval {
		t.Errorf("expected default interval %v, got %v", DefaultBackoffInterval, got)
	}
	if got := NewFixedBackoff(-time.Second).Interval(); got != DefaultBackoffInterval {
		t.Errorf("expected default interval for negative input, got %v", got)
	}
	if got := NewFixedBackoff(2 * time.Second).Interval(); got != 2*time.Second {
		t.Errorf("expected 2s, got %v", got)
	}
}

func TestFixedBackoff_SameIntervalEveryTime(t *testing.T) {
	clock := newManualClock()
	b := NewFixedBackoff(5*time.Second, WithClock(clock))

	for i := 0; i < 4; i++ {
		done := make(chan error, 1)
		go func() { done <- b.Wait(context.Background()) }()

		if d := <-clock.created; d != 5*time.Second {
			t.Fatalf("wait %d: expected 5s, got %v", i, d)
		}
		clock.fireLast()
		if err := <-done; err != nil {
			t.Fatalf("wait %d: unexpected error %v", i, err)
		}
	}
}

func TestFixedBackoff_CancelDuringWait(t *testing.T) {
	clock := newManualClock()
	b := NewFixedBackoff(5*time.Second, WithClock(clock))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- b.Wait(ctx) }()
	<-clock.created
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancel")
	}
	clock.mu.Lock()
	stopped := clock.timers[0].stopped
	clock.mu.Unlock()
	if !stopped {
		t.Error("expected timer to be stopped on cancel")
	}
}

func TestSleep_AlreadyCancelled(t *testing.T) {
	clock := newManualClock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Sleep(ctx, clock, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(clock.created) != 0 {
		t.Error("no timer should be created for a cancelled context")
	}
}

func TestSleep_RealClock(t *testing.T) {
	start := time.Now()
	if err := Sleep(context.Background(), RealClock{}, 5*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("Sleep returned before the interval elapsed")
	}
}
