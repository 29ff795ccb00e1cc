package subscription

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/kbukum/ntfywatch/logger"
	"github.com/kbukum/ntfywatch/observability"
	"github.com/kbukum/ntfywatch/resilience"
)

// ErrRegistryClosed is returned by Subscribe after Close.
var ErrRegistryClosed = errors.New("subscription: registry closed")

// RunFunc is the body of a subscription worker. It must return once ctx is
// cancelled.
type RunFunc func(ctx context.Context, target Target)

// handle is the registry's private control over one running worker.
type handle struct {
	cancel context.CancelFunc
}

// Registry owns every running subscription worker, at most one per Key.
type Registry struct {
	mu      sync.Mutex
	entries map[Key]*handle
	closed  bool

	root context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
	run  RunFunc
	log  *logger.Logger

	client     Streamer
	dispatcher *Dispatcher
	backoff    resilience.Waiter
	metrics    *observability.SubscriptionMetrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithBackoff sets the wait between connection attempts.
func WithBackoff(w resilience.Waiter) Option {
	return func(r *Registry) { r.backoff = w }
}

// WithMetrics records worker and connection metrics.
func WithMetrics(m *observability.SubscriptionMetrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithLogger sets the logger used for registry and worker events.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithRunFunc replaces the worker body. The default body connects with the
// registry's client and dispatches through its dispatcher.
func WithRunFunc(fn RunFunc) Option {
	return func(r *Registry) { r.run = fn }
}

// NewRegistry creates an empty registry. Workers stream through client and
// hand messages to dispatcher.
func NewRegistry(client Streamer, dispatcher *Dispatcher, opts ...Option) *Registry {
	root, stop := context.WithCancel(context.Background())
	r := &Registry{
		entries:    make(map[Key]*handle),
		root:       root,
		stop:       stop,
		log:        logger.WithComponent("subscription"),
		client:     client,
		dispatcher: dispatcher,
		backoff:    resilience.NewFixedBackoff(resilience.DefaultBackoffInterval),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.run == nil {
		r.run = r.runWorker
	}
	return r
}

// Subscribe starts a worker for (server, topic) unless one is already
// running for the same key.
func (r *Registry) Subscribe(server, topic string) error {
	target := newTarget(server, topic)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRegistryClosed
	}
	if _, ok := r.entries[target.Key]; ok {
		r.mu.Unlock()
		return nil
	}

	ctx, cancel := context.WithCancel(r.root)
	r.entries[target.Key] = &handle{cancel: cancel}
	// Add under the lock so Close never waits on a group that is still growing.
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		r.run(ctx, target)
	}()

	r.log.Info("subscribed", logger.Fields(
		logger.FieldServer, target.Server,
		logger.FieldTopic, target.Topic,
	))
	return nil
}

// Unsubscribe cancels the worker for (server, topic), if any. It does not
// wait for the worker to exit.
func (r *Registry) Unsubscribe(server, topic string) error {
	target := newTarget(server, topic)

	r.mu.Lock()
	h, ok := r.entries[target.Key]
	if ok {
		delete(r.entries, target.Key)
		h.cancel()
	}
	r.mu.Unlock()

	if ok {
		r.log.Info("unsubscribed", logger.Fields(
			logger.FieldServer, target.Server,
			logger.FieldTopic, target.Topic,
		))
	}
	return nil
}

// Active returns the keys of all running subscriptions, sorted.
func (r *Registry) Active() []Key {
	r.mu.Lock()
	keys := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	r.mu.Unlock()

	slices.Sort(keys)
	return keys
}

// Len returns the number of running subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close cancels every worker, including ones already unsubscribed but still
// winding down, and waits for all of them to return or ctx to end.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		clear(r.entries)
		r.stop()
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) runWorker(ctx context.Context, target Target) {
	w := &worker{
		target:     target,
		client:     r.client,
		backoff:    r.backoff,
		dispatcher: r.dispatcher,
		metrics:    r.metrics,
		log: r.log.WithFields(logger.Fields(
			logger.FieldServer, target.Server,
			logger.FieldTopic, target.Topic,
		)),
	}
	w.run(ctx)
}
