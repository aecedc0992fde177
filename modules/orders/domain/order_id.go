package domain

import (
	"strings"

	"github.com/google/uuid"

	"github.com/rai/order-events-go/modules/shared/types"
)

// OrderID represents a unique identifier for an order.
type OrderID struct {
	value string
}

func NewOrderID() OrderID {
	return OrderID{value: uuid.New().String()}
}

// ParseOrderID accepts any non-blank identifier; generated ids are UUIDs but
// ids from other producers are kept opaque.
func ParseOrderID(s string) (OrderID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return OrderID{}, types.NewValidationError("order_id", ErrOrderIDRequired)
	}
	return OrderID{value: s}, nil
}

func (id OrderID) String() string           { return id.value }
func (id OrderID) IsZero() bool             { return id.value == "" }
func (id OrderID) Equals(other OrderID) bool { return id.value == other.value }
