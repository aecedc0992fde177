// Package queries contains read use cases for the orders module.
package queries

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/rai/order-events-go/modules/orders/domain"
)

// OrderDTO is a read model for order data.
type OrderDTO struct {
	OrderID     string
	CustomerID  string
	Status      string
	TotalAmount decimal.Decimal
	Currency    string
	Items       []OrderItemDTO
	CreatedAt   time.Time
}

type OrderItemDTO struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	Currency  string
}

// GetOrderQuery retrieves an order by ID.
type GetOrderQuery struct {
	OrderID string
}

type GetOrderHandler struct {
	repo domain.OrderRepository
}

func NewGetOrderHandler(repo domain.OrderRepository) *GetOrderHandler {
	return &GetOrderHandler{repo: repo}
}

// Handle returns (nil, nil) when no order exists under the id.
func (h *GetOrderHandler) Handle(ctx context.Context, query GetOrderQuery) (*OrderDTO, error) {
	orderID, err := domain.ParseOrderID(query.OrderID)
	if err != nil {
		return nil, err
	}

	order, err := h.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "find order")
	}
	if order == nil {
		return nil, nil
	}

	return toOrderDTO(order), nil
}

func toOrderDTO(order *domain.Order) *OrderDTO {
	orderItems := order.Items()
	items := make([]OrderItemDTO, len(orderItems))
	for i, item := range orderItems {
		items[i] = OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.Amount(),
			Currency:  item.Price.Currency(),
		}
	}

	total := order.Total()
	return &OrderDTO{
		OrderID:     order.ID().String(),
		CustomerID:  order.CustomerID(),
		Status:      order.Status().String(),
		TotalAmount: total.Amount(),
		Currency:    total.Currency(),
		Items:       items,
		CreatedAt:   order.CreatedAt(),
	}
}
