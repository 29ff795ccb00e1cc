package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/ntfywatch/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		logger.FieldEndpoint, config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// SubscriptionMetrics holds the instruments recorded by subscription workers.
type SubscriptionMetrics struct {
	connects       metric.Int64Counter
	messages       metric.Int64Counter
	sinkErrors     metric.Int64Counter
	active         metric.Int64UpDownCounter
	streamDuration metric.Float64Histogram
}

// NewSubscriptionMetrics creates the instruments on the given meter.
func NewSubscriptionMetrics(meter metric.Meter) (*SubscriptionMetrics, error) {
	connects, err := meter.Int64Counter("ntfy.connect.total",
		metric.WithDescription("Connection attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ntfy.connect.total counter: %w", err)
	}

	messages, err := meter.Int64Counter("ntfy.message.total",
		metric.WithDescription("Messages dispatched to sinks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ntfy.message.total counter: %w", err)
	}

	sinkErrors, err := meter.Int64Counter("ntfy.sink.error.total",
		metric.WithDescription("Sink calls that returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ntfy.sink.error.total counter: %w", err)
	}

	active, err := meter.Int64UpDownCounter("ntfy.subscription.active",
		metric.WithDescription("Number of running subscription workers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ntfy.subscription.active gauge: %w", err)
	}

	streamDuration, err := meter.Float64Histogram("ntfy.stream.duration",
		metric.WithDescription("Lifetime of established streams in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ntfy.stream.duration histogram: %w", err)
	}

	return &SubscriptionMetrics{
		connects:       connects,
		messages:       messages,
		sinkErrors:     sinkErrors,
		active:         active,
		streamDuration: streamDuration,
	}, nil
}

// ConnectAttempt records one connection attempt. A nil err counts as "ok".
func (m *SubscriptionMetrics) ConnectAttempt(ctx context.Context, server, topic string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.connects.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrServer, server),
		attribute.String(AttrTopic, topic),
		attribute.String(AttrStatus, status),
	))
}

// MessageReceived records one dispatched message.
func (m *SubscriptionMetrics) MessageReceived(ctx context.Context, server, topic string) {
	if m == nil {
		return
	}
	m.messages.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrServer, server),
		attribute.String(AttrTopic, topic),
	))
}

// SinkError records a failed sink call.
func (m *SubscriptionMetrics) SinkError(ctx context.Context, sink string) {
	if m == nil {
		return
	}
	m.sinkErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("sink", sink)))
}

// WorkerStarted increments the active worker gauge.
func (m *SubscriptionMetrics) WorkerStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1)
}

// WorkerStopped decrements the active worker gauge.
func (m *SubscriptionMetrics) WorkerStopped(ctx context.Context) {
	if m == nil {
		return
	}
	m.active.Add(ctx, -1)
}

// StreamEnded records how long an established stream stayed open.
func (m *SubscriptionMetrics) StreamEnded(ctx context.Context, server, topic string, d time.Duration) {
	if m == nil {
		return
	}
	m.streamDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrServer, server),
		attribute.String(AttrTopic, topic),
	))
}
