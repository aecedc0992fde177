package domain

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrCustomerIDRequired     = errors.New("customer ID is required")
	ErrOrderEmpty             = errors.New("order must have at least one item")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrProductIDRequired      = errors.New("product ID is required")
	ErrOrderIDRequired        = errors.New("order ID cannot be empty")
	ErrInvalidStateTransition = errors.New("invalid order state transition")
	ErrUnknownStatus          = errors.New("unknown order status")
)

// InvalidStateTransitionError reports a status change the state machine forbids.
// It matches ErrInvalidStateTransition via errors.Is.
type InvalidStateTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *InvalidStateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}
