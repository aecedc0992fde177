package domain

import (
	"context"
)

// OrderRepository defines persistence operations for orders.
// FindByID returns (nil, nil) when no order is stored under id.
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id OrderID) (*Order, error)
	FindByCustomerID(ctx context.Context, customerID string) ([]*Order, error)
	Delete(ctx context.Context, id OrderID) error
}
