// Package notifications reacts to order events with customer notifications.
package notifications

import (
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/rai/order-events-go/modules/notifications/application/eventhandlers"
	"github.com/rai/order-events-go/modules/shared/events"
	"github.com/rai/order-events-go/modules/shared/events/contracts"
)

// Module represents the notification module entry point.
type Module struct{}

type Config struct {
	EventSubscriber events.Subscriber
	Logger          *zap.Logger
}

// New initializes the notification module and subscribes to events.
func New(cfg Config) (*Module, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("module", "notifications"))

	orderCreatedHandler := eventhandlers.NewOrderCreatedHandler(logger)
	if err := cfg.EventSubscriber.Subscribe(contracts.OrderCreatedEventName, orderCreatedHandler); err != nil {
		return nil, errors.Wrap(err, "subscribe to order created")
	}

	return &Module{}, nil
}
