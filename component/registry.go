package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/ntfywatch/logger"
)

// DefaultStopTimeout bounds a single component's Stop when the caller's
// context carries no earlier deadline.
const DefaultStopTimeout = 10 * time.Second

type entry struct {
	c       Component
	started bool
}

// Registry starts components in registration order and stops them in
// reverse. The lock only guards the entry list: Start, Stop and Health run
// unlocked, so a /health request served by a component that is stopping
// can still read the registry.
type Registry struct {
	mu          sync.Mutex
	entries     []*entry
	byName      map[string]*entry
	stopTimeout time.Duration
	log         *logger.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStopTimeout sets the per-component Stop budget.
func WithStopTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.stopTimeout = d
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		byName:      make(map[string]*entry),
		stopTimeout: DefaultStopTimeout,
		log:         logger.WithComponent("lifecycle"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends c. Register producers before consumers: the event hub
// before the subscriptions that emit into it, and those before the server
// that exposes them.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("component %s already registered", name)
	}
	e := &entry{c: c}
	r.entries = append(r.entries, e)
	r.byName[name] = e
	return nil
}

func (r *Registry) snapshot() []*entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entry(nil), r.entries...)
}

func (r *Registry) setStarted(e *entry, v bool) {
	r.mu.Lock()
	e.started = v
	r.mu.Unlock()
}

// StartAll starts every component in order and stops at the first failure.
// Components started before the failure stay marked started so StopAll
// releases them.
func (r *Registry) StartAll(ctx context.Context) error {
	for _, e := range r.snapshot() {
		name := e.c.Name()
		began := time.Now()
		if err := e.c.Start(ctx); err != nil {
			r.log.Error("component start failed", logger.MergeWithError(logger.Fields("name", name), err))
			return fmt.Errorf("start %s: %w", name, err)
		}
		r.setStarted(e, true)
		r.log.Debug("component started", logger.Fields("name", name, "took", time.Since(began).String()))
	}
	return nil
}

// StopAll stops started components in reverse order and joins their errors.
// Each Stop gets the smaller of ctx's remaining time and the per-component
// budget.
func (r *Registry) StopAll(ctx context.Context) error {
	entries := r.snapshot()

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		r.mu.Lock()
		started := e.started
		r.mu.Unlock()
		if !started {
			continue
		}

		name := e.c.Name()
		stopCtx, cancel := context.WithTimeout(ctx, r.stopTimeout)
		err := e.c.Stop(stopCtx)
		cancel()
		r.setStarted(e, false)

		if err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
			r.log.Error("component stop failed", logger.MergeWithError(logger.Fields("name", name), err))
			continue
		}
		r.log.Debug("component stopped", logger.Fields("name", name))
	}
	return errors.Join(errs...)
}

// HealthAll reports every component's health in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	entries := r.snapshot()
	out := make([]Health, 0, len(entries))
	for _, e := range entries {
		h := e.c.Health(ctx)
		if h.Name == "" {
			h.Name = e.c.Name()
		}
		out = append(out, h)
	}
	return out
}

// Get returns the component registered as name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.byName[name]; ok {
		return e.c
	}
	return nil
}

// Descriptions returns Describe output of Describable components, in
// registration order.
func (r *Registry) Descriptions() []Description {
	var out []Description
	for _, e := range r.snapshot() {
		d, ok := e.c.(Describable)
		if !ok {
			continue
		}
		desc := d.Describe()
		if desc.Name == "" {
			desc.Name = e.c.Name()
		}
		out = append(out, desc)
	}
	return out
}
