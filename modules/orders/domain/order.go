// Package domain contains business entities and rules for orders.
package domain

import (
	"strings"
	"time"

	shareddomain "github.com/rai/order-events-go/modules/shared/domain"
	"github.com/rai/order-events-go/modules/shared/types"
)

// Order is the aggregate root for the order bounded context.
type Order struct {
	shareddomain.AggregateRoot

	id         OrderID
	customerID string
	items      []OrderItem
	status     Status
	total      types.Money
	createdAt  time.Time
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ProductID string
	Quantity  int
	Price     types.Money
}

func (i OrderItem) Subtotal() (types.Money, error) {
	return i.Price.Multiply(int64(i.Quantity))
}

// CreateOrder places a new PENDING order and buffers an OrderCreated event.
func CreateOrder(customerID string, items []OrderItem) (*Order, error) {
	order, err := newOrder(NewOrderID(), customerID, items, StatusPending, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	order.AddDomainEvent(newOrderCreatedEvent(order))
	return order, nil
}

// Reconstitute rebuilds an order from persistence.
// The same invariants as CreateOrder apply, but the event buffer is left empty:
// loading an order must never re-emit its creation event.
func Reconstitute(
	id OrderID,
	customerID string,
	items []OrderItem,
	status Status,
	createdAt time.Time,
) (*Order, error) {
	if !status.IsValid() {
		return nil, ErrUnknownStatus
	}

	order, err := newOrder(id, customerID, items, status, createdAt)
	if err != nil {
		return nil, err
	}

	order.ClearEvents()
	return order, nil
}

func newOrder(id OrderID, customerID string, items []OrderItem, status Status, createdAt time.Time) (*Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, types.NewValidationError("customer_id", ErrCustomerIDRequired)
	}
	if len(items) == 0 {
		return nil, types.NewValidationError("items", ErrOrderEmpty)
	}
	for _, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, types.NewValidationError("items.product_id", ErrProductIDRequired)
		}
		if item.Quantity <= 0 {
			return nil, types.NewValidationError("items.quantity", ErrInvalidQuantity)
		}
	}

	total, err := sumItems(items)
	if err != nil {
		return nil, types.NewValidationError("items", err)
	}

	return &Order{
		id:         id,
		customerID: customerID,
		items:      append([]OrderItem(nil), items...),
		status:     status,
		total:      total,
		createdAt:  createdAt,
	}, nil
}

// sumItems folds price*quantity left to right, starting from zero in the
// first item's currency. Mixed currencies fail at the first mismatch.
func sumItems(items []OrderItem) (types.Money, error) {
	total, err := types.ZeroMoney(items[0].Price.Currency())
	if err != nil {
		return types.Money{}, err
	}
	for _, item := range items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return types.Money{}, err
		}
		total, err = total.Add(subtotal)
		if err != nil {
			return types.Money{}, err
		}
	}
	return total, nil
}

// Getters

func (o *Order) ID() OrderID          { return o.id }
func (o *Order) CustomerID() string   { return o.customerID }
func (o *Order) Status() Status       { return o.status }
func (o *Order) Total() types.Money   { return o.total }
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// Items returns a copy of the line items.
func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

// Business methods

// Confirm moves a PENDING order to CONFIRMED.
func (o *Order) Confirm() error { return o.transitionTo(StatusConfirmed) }

// Ship moves a CONFIRMED order to SHIPPED.
func (o *Order) Ship() error { return o.transitionTo(StatusShipped) }

// Deliver moves a SHIPPED order to DELIVERED.
func (o *Order) Deliver() error { return o.transitionTo(StatusDelivered) }

// Cancel cancels the order unless it was already delivered.
func (o *Order) Cancel() error { return o.transitionTo(StatusCancelled) }

func (o *Order) transitionTo(next Status) error {
	if !o.status.CanTransitionTo(next) {
		return &InvalidStateTransitionError{From: o.status, To: next}
	}
	o.status = next
	return nil
}
