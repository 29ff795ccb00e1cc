package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/ntfywatch/component"
	"github.com/kbukum/ntfywatch/logger"
)

// DefaultGracefulTimeout bounds shutdown when no WithGracefulTimeout is given.
const DefaultGracefulTimeout = 15 * time.Second

// App owns the process lifecycle: it starts the registered components,
// serves until a signal or ctx ends, then stops them in reverse. C is the
// typed application config.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	onReady         []Hook
	onStop          []Hook
}

// NewApp applies config defaults, validates the config and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: DefaultGracefulTimeout,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	// No single component may use more than the whole shutdown budget.
	app.Components = component.NewRegistry(component.WithStopTimeout(app.gracefulTimeout))

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	out := o.summaryOut
	if out == nil {
		out = os.Stdout
	}
	app.Summary = NewSummary(base.Name, base.Version, out)
	return app, nil
}

// RegisterComponent adds c. Registration order is start order.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck returns one joined error naming every component that is not
// healthy, or nil.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var errs []error
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		if h.Message != "" {
			errs = append(errs, fmt.Errorf("%s is %s: %s", h.Name, h.Status, h.Message))
		} else {
			errs = append(errs, fmt.Errorf("%s is %s", h.Name, h.Status))
		}
	}
	return errors.Join(errs...)
}

// Run starts everything and blocks until SIGINT, SIGTERM or ctx ends, then
// shuts down within the graceful timeout. A failed startup still stops the
// components that did start.
func (a *App[C]) Run(ctx context.Context) error {
	runCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := a.startup(runCtx); err != nil {
		return errors.Join(err, a.stop())
	}

	<-runCtx.Done()
	a.Logger.Info("shutdown requested", logger.Fields("cause", context.Cause(runCtx).Error()))
	return a.stop()
}

func (a *App[C]) startup(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("starting", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("started with unhealthy components", logger.ErrorFields("ready_check", err))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("ready: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(began))
	a.Summary.Display(ctx, a.Components)
	return nil
}

// stop uses a fresh context: the run context is already done by now.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	hookErr := runHooks(ctx, a.onStop)
	if hookErr != nil {
		a.Logger.Error("stop hook failed", logger.ErrorFields("on_stop", hookErr))
	}
	stopErr := a.Components.StopAll(ctx)
	if stopErr != nil {
		a.Logger.Error("shutdown finished with errors", logger.ErrorFields("stop_all", stopErr))
	} else {
		a.Logger.Info("shutdown complete")
	}
	return errors.Join(hookErr, stopErr)
}
