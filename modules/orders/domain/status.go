package domain

import (
	"github.com/go-faster/errors"
)

// Status represents the order status.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// transitions lists the allowed next states; terminal states have none.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: nil,
	StatusCancelled: {StatusCancelled},
}

// ParseStatus converts a stored status string back into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
	}
	return status, nil
}

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no forward transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
