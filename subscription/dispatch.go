package subscription

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/ntfywatch/logger"
	"github.com/kbukum/ntfywatch/observability"
)

// DefaultBrokerLabel prefixes synthesized notification titles.
const DefaultBrokerLabel = "ntfy"

// Dispatcher hands decoded messages to the notification and event sinks.
// Sink failures are logged and dropped; Dispatch never fails.
type Dispatcher struct {
	notifier NotificationSink
	events   EventSink
	label    string
	metrics  *observability.SubscriptionMetrics
	log      *logger.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithBrokerLabel sets the prefix used when a message has no title.
func WithBrokerLabel(label string) DispatcherOption {
	return func(d *Dispatcher) {
		if label != "" {
			d.label = label
		}
	}
}

// WithDispatchMetrics records dispatched messages and sink errors.
func WithDispatchMetrics(m *observability.SubscriptionMetrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

// NewDispatcher creates a Dispatcher. Either sink may be nil, in which case
// that half of dispatch is skipped.
func NewDispatcher(notifier NotificationSink, events EventSink, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		notifier: notifier,
		events:   events,
		label:    DefaultBrokerLabel,
		log:      logger.WithComponent("dispatch"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch shows a notification for msg and emits a NewMessageEvent
// attributed to server.
func (d *Dispatcher) Dispatch(ctx context.Context, server string, msg *Message) {
	ctx, span := observability.StartSpan(ctx, observability.SpanDispatch, trace.WithAttributes(
		attribute.String(observability.AttrServer, server),
		attribute.String(observability.AttrTopic, msg.Topic),
		attribute.String(observability.AttrMessageID, msg.ID),
	))
	defer span.End()

	d.metrics.MessageReceived(ctx, server, msg.Topic)

	if d.notifier != nil {
		if err := d.notifier.Show(d.Title(msg), msg.Body, NotificationID(msg.Time)); err != nil {
			observability.SetSpanError(ctx, err)
			d.metrics.SinkError(ctx, "notification")
			d.log.Warn("notification sink failed", logger.MergeWithError(logger.Fields(
				logger.FieldServer, server,
				logger.FieldTopic, msg.Topic,
				logger.FieldMessageID, msg.ID,
			), err))
		}
	}

	if d.events != nil {
		payload := NewMessageEvent{ServerAddress: server, Message: msg}
		if err := d.events.Emit(ChannelNewMessage, payload); err != nil {
			observability.SetSpanError(ctx, err)
			d.metrics.SinkError(ctx, "event")
			d.log.Warn("event sink failed", logger.MergeWithError(logger.Fields(
				logger.FieldServer, server,
				logger.FieldTopic, msg.Topic,
				logger.FieldMessageID, msg.ID,
			), err))
		}
	}
}

// Title is the notification title for msg: its own title, or
// "<label>: <topic>" when it has none.
func (d *Dispatcher) Title(msg *Message) string {
	if msg.Title != "" {
		return msg.Title
	}
	return d.label + ": " + msg.Topic
}

// NotificationID derives a stable notification handle from a message
// timestamp, reduced into [0, math.MaxInt32).
func NotificationID(ts int64) int32 {
	id := ts % math.MaxInt32
	if id < 0 {
		id += math.MaxInt32
	}
	return int32(id)
}
