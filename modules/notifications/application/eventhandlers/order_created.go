package eventhandlers

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/rai/order-events-go/modules/shared/events"
	"github.com/rai/order-events-go/modules/shared/events/contracts"
)

// OrderCreatedHandler reacts to new orders with a customer notification.
// It runs either on the in-process bus or behind the Kafka consumer, so it
// must stay idempotent per event ID.
type OrderCreatedHandler struct {
	logger *zap.Logger
}

func NewOrderCreatedHandler(logger *zap.Logger) *OrderCreatedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderCreatedHandler{logger: logger}
}

func (h *OrderCreatedHandler) Handle(ctx context.Context, event events.Event) error {
	var evt contracts.OrderCreatedEvent
	switch v := event.(type) {
	case contracts.OrderCreatedEvent:
		evt = v
	case *contracts.OrderCreatedEvent:
		evt = *v
	default:
		return errors.Errorf("unexpected event type %T for %s", event, event.EventName())
	}

	h.logger.Info("Processing order created for customer",
		zap.String("customer_id", evt.CustomerID),
		zap.String("order_id", evt.OrderID),
		zap.String("event_id", evt.EventID()),
		zap.Stringer("total", evt.TotalAmount),
	)

	// Mock sending the confirmation email.
	h.logger.Info("Order creation processed successfully",
		zap.String("order_id", evt.OrderID),
		zap.String("action", "order_confirmation"),
	)
	return nil
}
