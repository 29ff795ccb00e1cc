package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/ntfywatch/logger"
)

const defaultTracerName = "github.com/kbukum/ntfywatch"

// TracerConfig configures the OpenTelemetry tracer.
type TracerConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string
	Insecure bool
	// SampleRate is the sampling rate (0.0 to 1.0).
	SampleRate float64
}

// InitTracer initializes the OpenTelemetry tracer provider and installs it
// globally. The returned provider must be shut down on exit.
func InitTracer(ctx context.Context, config TracerConfig) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracer initialized", logger.Fields(
		"service", config.ServiceName,
		logger.FieldEndpoint, config.Endpoint,
		"sample_rate", config.SampleRate,
	))

	return tp, nil
}

func samplerFor(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// newResource describes this process. Attributes are schemaless so merging
// with the SDK default never trips a schema URL conflict.
func newResource(serviceName, serviceVersion, environment string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("deployment.environment", environment),
		),
	)
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan starts a new span using the default tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer(defaultTracerName).Start(ctx, name, opts...)
}

// SetSpanError records err on the span in ctx, if one is recording.
func SetSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
}

// Span names.
const (
	SpanConnect  = "ntfy.connect"
	SpanDispatch = "ntfy.dispatch"
)

// Attribute keys.
const (
	AttrServer       = "ntfy.server"
	AttrTopic        = "ntfy.topic"
	AttrMessageID    = "ntfy.message.id"
	AttrStatus       = "status"
	AttrErrorMessage = "error.message"
)
