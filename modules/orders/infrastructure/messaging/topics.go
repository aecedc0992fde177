// Package messaging binds order events to the Kafka transport: topic routing
// and wire encoding of each event variant.
package messaging

import (
	"github.com/rai/order-events-go/internal/platform/kafka"
	"github.com/rai/order-events-go/modules/shared/events/contracts"
)

const (
	// TopicOrderEvents receives every order event without a dedicated topic.
	TopicOrderEvents = "order.events"
	// TopicOrderCreated receives OrderCreated.
	TopicOrderCreated = "order.created"
	// TopicOrderConfirmed is reserved; no event is routed to it yet.
	TopicOrderConfirmed = "order.confirmed"
)

// NewRouter returns the fixed routing table for order events.
func NewRouter() *kafka.Router {
	return kafka.NewRouter(TopicOrderEvents, map[string]string{
		contracts.OrderCreatedEventName: TopicOrderCreated,
	})
}
