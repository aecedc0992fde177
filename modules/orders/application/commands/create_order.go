// Package commands contains write use cases for the orders module.
package commands

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rai/order-events-go/modules/orders/domain"
	"github.com/rai/order-events-go/modules/shared/events"
	"github.com/rai/order-events-go/modules/shared/types"
)

// CreateOrderItem is one requested line. An empty Currency means types.DefaultCurrency.
type CreateOrderItem struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	Currency  string
}

// CreateOrderCommand places a new order for a customer.
type CreateOrderCommand struct {
	CustomerID string
	Items      []CreateOrderItem
}

type CreateOrderResult struct {
	OrderID     string
	TotalAmount decimal.Decimal
	Currency    string
}

type CreateOrderHandler struct {
	repo      domain.OrderRepository
	publisher events.Publisher
	logger    *zap.Logger
}

func NewCreateOrderHandler(repo domain.OrderRepository, publisher events.Publisher, logger *zap.Logger) *CreateOrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateOrderHandler{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the create order use case.
// The order is saved before its events are published. If publishing fails
// the order stays persisted. Failures are returned as the originating error.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*CreateOrderResult, error) {
	items := make([]domain.OrderItem, len(cmd.Items))
	for i, it := range cmd.Items {
		currency := it.Currency
		if strings.TrimSpace(currency) == "" {
			currency = types.DefaultCurrency
		}
		price, err := types.NewMoney(it.Price, currency)
		if err != nil {
			return nil, err
		}
		items[i] = domain.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     price,
		}
	}

	order, err := domain.CreateOrder(cmd.CustomerID, items)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	if err := h.publisher.PublishAll(ctx, order.UncommittedEvents()); err != nil {
		h.logger.Error("Order saved but events were not published",
			zap.String("order_id", order.ID().String()),
			zap.Error(err),
		)
		return nil, err
	}
	order.MarkEventsAsCommitted()

	total := order.Total()
	h.logger.Info("Order created",
		zap.String("order_id", order.ID().String()),
		zap.String("customer_id", order.CustomerID()),
		zap.Stringer("total", total),
		zap.Int("items", len(items)),
	)

	return &CreateOrderResult{
		OrderID:     order.ID().String(),
		TotalAmount: total.Amount(),
		Currency:    total.Currency(),
	}, nil
}
