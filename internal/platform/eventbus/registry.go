package eventbus

import (
	"sync"

	"go.uber.org/zap"

	"github.com/rai/order-events-go/modules/shared/events"
)

// HandlerRegistry provides access to registered event handlers.
// This allows the in-process bus and the Kafka consumer to dispatch to
// handlers without managing subscriptions themselves.
type HandlerRegistry interface {
	// HandlersFor returns all handlers registered for the given event name.
	HandlersFor(eventName string) []events.Handler
}

// EventHandlerRegistry manages event handler subscriptions.
// It implements both events.Subscriber (for registering handlers) and
// HandlerRegistry (for retrieving handlers by event name).
type EventHandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]events.Handler
	logger   *zap.Logger
}

// NewEventHandlerRegistry creates a new registry for event handlers.
func NewEventHandlerRegistry(logger *zap.Logger) *EventHandlerRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHandlerRegistry{
		handlers: make(map[string][]events.Handler),
		logger:   logger,
	}
}

// Subscribe implements events.Subscriber.
// It should be called once per event name per module at initialization.
func (r *EventHandlerRegistry) Subscribe(eventName string, handler events.Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[eventName] = append(r.handlers[eventName], handler)
	r.logger.Debug("subscribed to event", zap.String("event_name", eventName))

	return nil
}

// HandlersFor implements HandlerRegistry.
// Returns a copy of the handlers slice to avoid race conditions.
func (r *EventHandlerRegistry) HandlersFor(eventName string) []events.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handlers := r.handlers[eventName]
	result := make([]events.Handler, len(handlers))
	copy(result, handlers)
	return result
}

// Compile-time interface checks.
var (
	_ events.Subscriber = (*EventHandlerRegistry)(nil)
	_ HandlerRegistry   = (*EventHandlerRegistry)(nil)
)
