package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/ntfywatch/component"
	"github.com/kbukum/ntfywatch/logger"
)

// Component owns the tracer and meter providers for the process lifetime.
type Component struct {
	cfg         Config
	serviceName string
	version     string
	environment string

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewComponent creates the observability component. Nothing is exported
// until Start runs, and nothing at all when cfg.Enabled is false.
func NewComponent(cfg Config, serviceName, version, environment string) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg:         cfg,
		serviceName: serviceName,
		version:     version,
		environment: environment,
	}
}

func (c *Component) Name() string { return "observability" }

// Start installs the OTLP tracer and meter providers.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		logger.Debug("observability disabled")
		return nil
	}

	tp, err := InitTracer(ctx, c.cfg.TracerConfig(c.serviceName, c.version, c.environment))
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	mp, err := InitMeter(ctx, c.cfg.MeterConfig(c.serviceName, c.version, c.environment))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("observability: %w", err)
	}
	c.tp, c.mp = tp, mp
	return nil
}

// Stop flushes and shuts down both providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
	}
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
	}
	c.tp, c.mp = nil, nil
	return errors.Join(errs...)
}

func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.cfg.Enabled {
		h.Message = "disabled"
	}
	return h
}

func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = "otlp http://" + c.cfg.Endpoint
	}
	return component.Description{Name: "Observability", Type: "otel", Details: details}
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)
