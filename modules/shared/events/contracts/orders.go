// Package contracts defines public event contracts for inter-module communication.
// Modules should import event types from here, NOT from other module's domain packages.
package contracts

import (
	"github.com/rai/order-events-go/modules/shared/events"
	"github.com/rai/order-events-go/modules/shared/types"
)

// Order module event names.
// These are the "public API" of the orders module for event-driven communication.
const (
	OrderCreatedEventName = "OrderCreated"
)

// OrderItem is the line item snapshot carried by order events.
type OrderItem struct {
	ProductID string
	Quantity  int
	Price     types.Money
}

// OrderCreatedEvent is raised once, when an order is placed.
type OrderCreatedEvent struct {
	events.BaseEvent
	OrderID     string
	CustomerID  string
	TotalAmount types.Money
	Items       []OrderItem
}
