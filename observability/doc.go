// Package observability wires OpenTelemetry tracing and metrics for the
// subscription engine.
//
// Exporters speak OTLP over HTTP. When observability is disabled the global
// no-op providers stay in place and every instrument becomes free to call.
//
//	p, err := observability.Setup(ctx, cfg, "ntfywatch", version.Get().Version)
//	defer p.Shutdown(ctx)
//
//	metrics, err := observability.NewSubscriptionMetrics(observability.Meter("ntfywatch"))
//	metrics.MessageReceived(ctx, server, topic)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanConnect)
//	defer span.End()
//
// *SubscriptionMetrics methods are safe on a nil receiver.
package observability
