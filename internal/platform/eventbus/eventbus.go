// Package eventbus provides the in-process event transport: a local sink that
// logs every published event and dispatches it to subscribed handlers.
// For cross-process delivery, see the kafka package.
package eventbus

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rai/order-events-go/modules/shared/events"
)

// InMemoryEventBus implements a simple synchronous event bus.
// Events are logged and delivered in the publishing goroutine.
// Publish never fails: handler errors are logged, not returned.
type InMemoryEventBus struct {
	registry *EventHandlerRegistry
	logger   *zap.Logger
}

func New(logger *zap.Logger) *InMemoryEventBus {
	return NewWithRegistry(NewEventHandlerRegistry(logger), logger)
}

// NewWithRegistry creates a bus dispatching to handlers held by registry,
// so the same subscriptions can serve other transports too.
func NewWithRegistry(registry *EventHandlerRegistry, logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		registry: registry,
		logger:   logger,
	}
}

// Publish implements events.Publisher.
func (b *InMemoryEventBus) Publish(ctx context.Context, event events.Event) error {
	handlers := b.registry.HandlersFor(event.EventName())

	b.logger.Info("Event published",
		zap.String("event_name", event.EventName()),
		zap.Int("event_version", event.EventVersion()),
		zap.String("occurred_on", event.OccurredOn().UTC().Format(time.RFC3339Nano)),
		zap.String("event_id", event.EventID()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.Any("data", event),
		zap.Int("handler_count", len(handlers)),
	)

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			b.logger.Error("event handler failed",
				zap.String("event_name", event.EventName()),
				zap.String("event_id", event.EventID()),
				zap.Error(err),
			)
			// Continue processing other handlers even if one fails
		}
	}

	return nil
}

// PublishAll implements events.Publisher.
func (b *InMemoryEventBus) PublishAll(ctx context.Context, evts []events.Event) error {
	b.logger.Info("Publishing events", zap.Int("count", len(evts)))
	return events.PublishConcurrently(ctx, evts, b.Publish)
}

// Subscribe implements events.Subscriber.
func (b *InMemoryEventBus) Subscribe(eventName string, handler events.Handler) error {
	return b.registry.Subscribe(eventName, handler)
}

// Compile-time interface checks.
var (
	_ events.Publisher  = (*InMemoryEventBus)(nil)
	_ events.Subscriber = (*InMemoryEventBus)(nil)
)
