package queries

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/rai/order-events-go/modules/orders/domain"
	"github.com/rai/order-events-go/modules/shared/types"
)

// ListCustomerOrdersQuery lists every order placed by a customer.
type ListCustomerOrdersQuery struct {
	CustomerID string
}

type ListCustomerOrdersHandler struct {
	repo domain.OrderRepository
}

func NewListCustomerOrdersHandler(repo domain.OrderRepository) *ListCustomerOrdersHandler {
	return &ListCustomerOrdersHandler{repo: repo}
}

// Handle returns the orders oldest first. An unknown customer yields an empty slice.
func (h *ListCustomerOrdersHandler) Handle(ctx context.Context, query ListCustomerOrdersQuery) ([]*OrderDTO, error) {
	customerID := strings.TrimSpace(query.CustomerID)
	if customerID == "" {
		return nil, types.NewValidationError("customer_id", domain.ErrCustomerIDRequired)
	}

	orders, err := h.repo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}

	dtos := make([]*OrderDTO, len(orders))
	for i, order := range orders {
		dtos[i] = toOrderDTO(order)
	}
	return dtos, nil
}
