// Package resilience provides the reconnect pacing used by subscription
// workers: a fixed-interval backoff whose waits end early when the caller's
// context is cancelled.
//
// The interval deliberately does not grow with consecutive failures and has
// no jitter, so reconnect timing stays predictable:
//
//	b := resilience.NewFixedBackoff(5 * time.Second)
//	if err := b.Wait(ctx); err != nil {
//	    return // cancelled
//	}
package resilience
