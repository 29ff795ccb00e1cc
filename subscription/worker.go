package subscription

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/ntfywatch/httpclient"
	"github.com/kbukum/ntfywatch/logger"
	"github.com/kbukum/ntfywatch/observability"
	"github.com/kbukum/ntfywatch/resilience"
)

// Streamer opens an event stream. *httpclient.Client implements it.
type Streamer interface {
	DoStream(ctx context.Context, req httpclient.Request) (*httpclient.StreamResponse, error)
}

// worker runs one subscription: Connecting → Streaming → BackoffWait, until
// its context is cancelled.
type worker struct {
	target     Target
	client     Streamer
	backoff    resilience.Waiter
	dispatcher *Dispatcher
	metrics    *observability.SubscriptionMetrics
	log        *logger.Logger
}

func (w *worker) run(ctx context.Context) {
	w.metrics.WorkerStarted(ctx)
	defer w.metrics.WorkerStopped(context.WithoutCancel(ctx))

	w.log.Debug("worker started")
	defer w.log.Debug("worker stopped")

	for {
		if ctx.Err() != nil {
			return
		}
		w.session(ctx)

		if ctx.Err() != nil {
			return
		}
		w.log.Debug("reconnecting after backoff")
		if err := w.backoff.Wait(ctx); err != nil {
			return
		}
	}
}

// session connects once and streams until the connection ends.
func (w *worker) session(ctx context.Context) {
	stream, err := w.connect(ctx)
	if err != nil {
		return
	}
	defer func() { _ = stream.Close() }()

	opened := time.Now()
	w.log.Info("subscription stream open")
	defer func() {
		w.metrics.StreamEnded(context.WithoutCancel(ctx), w.target.Server, w.target.Topic, time.Since(opened))
	}()

	for {
		if ctx.Err() != nil {
			return
		}
		ev, err := stream.Events.Next()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, io.EOF) {
				w.log.Info("subscription stream closed by server")
			} else {
				w.log.Warn("subscription stream failed", logger.ErrorFields("read", err))
			}
			return
		}
		// ntfy sends one JSON document per data line; each is its own message.
		for _, payload := range ev.Lines {
			if ctx.Err() != nil {
				return
			}
			w.handle(ctx, payload)
		}
	}
}

func (w *worker) connect(ctx context.Context) (*httpclient.StreamResponse, error) {
	spanCtx, span := observability.StartSpan(ctx, observability.SpanConnect, trace.WithAttributes(
		attribute.String(observability.AttrServer, w.target.Server),
		attribute.String(observability.AttrTopic, w.target.Topic),
	))
	defer span.End()

	stream, err := w.client.DoStream(spanCtx, httpclient.Request{URL: w.target.Key.StreamURL()})
	w.metrics.ConnectAttempt(ctx, w.target.Server, w.target.Topic, err)
	if err != nil {
		observability.SetSpanError(spanCtx, err)
		if ctx.Err() == nil {
			fields := logger.ErrorFields("connect", err)
			if code, ok := httpclient.CodeOf(err); ok {
				fields["code"] = code.String()
			}
			w.log.WithContext(spanCtx).Warn("subscription connect failed", fields)
		}
		return nil, err
	}
	return stream, nil
}

// handle decodes one frame payload and dispatches it if it is a message.
func (w *worker) handle(ctx context.Context, payload string) {
	msg, err := DecodeMessage(payload)
	if err != nil {
		w.log.Debug("skipping malformed frame", logger.ErrorFields("decode", err))
		return
	}
	if !msg.IsMessage() {
		w.log.Debug("ignoring event", logger.Fields("event", msg.Event))
		return
	}
	// The frame may have been read just before cancellation.
	if ctx.Err() != nil {
		return
	}
	w.dispatcher.Dispatch(ctx, w.target.Server, msg)
}
