package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rai/order-events-go/internal/platform/metrics"
	"github.com/rai/order-events-go/modules/shared/events"
)

// Message headers set on every published event.
const (
	HeaderEventID      = "event-id"
	HeaderEventName    = "event-name"
	HeaderEventVersion = "event-version"
)

const tracerName = "github.com/rai/order-events-go/internal/platform/kafka"

// Writer is the subset of *kafka.Writer used by Publisher.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// PublisherOptions configures optional collaborators of a Publisher.
type PublisherOptions struct {
	Logger         *zap.Logger
	TracerProvider trace.TracerProvider
	Metrics        *metrics.Messaging
}

// Publisher implements events.Publisher on top of a Kafka writer.
type Publisher struct {
	writer  Writer
	router  *Router
	codec   *Codec
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *metrics.Messaging
}

func NewPublisher(writer Writer, router *Router, codec *Codec, opts PublisherOptions) *Publisher {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = otel.GetTracerProvider()
	}
	return &Publisher{
		writer:  writer,
		router:  router,
		codec:   codec,
		logger:  opts.Logger,
		tracer:  opts.TracerProvider.Tracer(tracerName),
		metrics: opts.Metrics,
	}
}

// Publish routes, encodes and writes a single event.
// Every failure is reported as *events.PublicationError.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	name := event.EventName()
	topic := p.router.TopicFor(name)

	ctx, span := p.tracer.Start(ctx, "publish "+topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", topic),
			attribute.String("event.name", name),
			attribute.String("event.aggregate_id", event.AggregateID()),
		),
	)
	defer span.End()

	start := time.Now()
	value, err := p.codec.Marshal(event)
	if err != nil {
		return p.fail(span, event, topic, start, err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(event.AggregateID()),
		Value: value,
		Time:  event.OccurredOn(),
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(event.EventID())},
			{Key: HeaderEventName, Value: []byte(name)},
			{Key: HeaderEventVersion, Value: []byte(strconv.Itoa(event.EventVersion()))},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return p.fail(span, event, topic, start, errors.Wrap(err, "write message"))
	}

	p.metrics.ObservePublish(topic, name, metrics.StatusOK, time.Since(start))
	p.logger.Info("Event published to Kafka",
		zap.String("event_name", name),
		zap.String("event_id", event.EventID()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.String("topic", topic),
	)
	return nil
}

// PublishAll publishes events concurrently and returns the first failure.
func (p *Publisher) PublishAll(ctx context.Context, evts []events.Event) error {
	if len(evts) == 0 {
		return nil
	}
	p.logger.Debug("Publishing events to Kafka", zap.Int("count", len(evts)))
	return events.PublishConcurrently(ctx, evts, p.Publish)
}

func (p *Publisher) fail(span trace.Span, event events.Event, topic string, start time.Time, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	p.metrics.ObservePublish(topic, event.EventName(), metrics.StatusError, time.Since(start))
	p.logger.Error("Failed to publish event to Kafka",
		zap.String("event_name", event.EventName()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.String("topic", topic),
		zap.Error(err),
	)
	return &events.PublicationError{EventName: event.EventName(), Topic: topic, Err: err}
}

var _ events.Publisher = (*Publisher)(nil)
