package kafka

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rai/order-events-go/internal/platform/eventbus"
	"github.com/rai/order-events-go/internal/platform/metrics"
)

// Reader is the subset of *kafka.Reader used by Consumer.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Consumer reads event envelopes and dispatches them to registered handlers.
// Offsets are committed after handlers return, so delivery is at-least-once.
type Consumer struct {
	reader   Reader
	codec    *Codec
	registry eventbus.HandlerRegistry
	logger   *zap.Logger
	metrics  *metrics.Messaging
}

func NewConsumer(reader Reader, codec *Codec, registry eventbus.HandlerRegistry, logger *zap.Logger, m *metrics.Messaging) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		reader:   reader,
		codec:    codec,
		registry: registry,
		logger:   logger,
		metrics:  m,
	}
}

// Run consumes until ctx is done. It returns nil on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("Kafka consumer started")
	defer c.logger.Info("Kafka consumer stopped")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "fetch message")
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "commit message")
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	lg := c.logger.With(
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)

	event, err := c.codec.Unmarshal(msg.Value, header(msg, HeaderEventID), string(msg.Key))
	if err != nil {
		c.metrics.ObserveConsume(msg.Topic, header(msg, HeaderEventName), metrics.StatusError)
		lg.Warn("Skipping undecodable message", zap.Error(err))
		return
	}

	name := event.EventName()
	handlers := c.registry.HandlersFor(name)
	if len(handlers) == 0 {
		c.metrics.ObserveConsume(msg.Topic, name, metrics.StatusOK)
		if _, unknown := inboundEvent(event); unknown {
			lg.Warn("Unknown event type", zap.String("event_name", name))
		} else {
			lg.Debug("No handlers for event", zap.String("event_name", name))
		}
		return
	}

	status := metrics.StatusOK
	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			status = metrics.StatusError
			lg.Error("Event handler failed",
				zap.String("event_name", name),
				zap.String("aggregate_id", event.AggregateID()),
				zap.Error(err),
			)
		}
	}
	c.metrics.ObserveConsume(msg.Topic, name, status)
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
