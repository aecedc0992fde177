package domain

import (
	"github.com/rai/order-events-go/modules/shared/events"
	"github.com/rai/order-events-go/modules/shared/events/contracts"
)

const OrderCreatedEventName = contracts.OrderCreatedEventName

func newOrderCreatedEvent(order *Order) contracts.OrderCreatedEvent {
	items := make([]contracts.OrderItem, len(order.items))
	for i, item := range order.items {
		items[i] = contracts.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	return contracts.OrderCreatedEvent{
		BaseEvent:   events.NewBaseEvent(OrderCreatedEventName, order.ID().String()),
		OrderID:     order.ID().String(),
		CustomerID:  order.CustomerID(),
		TotalAmount: order.Total(),
		Items:       items,
	}
}
