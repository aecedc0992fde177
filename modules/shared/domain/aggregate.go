// Package domain provides shared domain primitives.
package domain

import "github.com/rai/order-events-go/modules/shared/events"

// AggregateRoot is a base type for aggregate roots that collect domain events.
// Embed this by value in aggregate structs to gain event collection capability.
//
// Example:
//
//	type Order struct {
//	    domain.AggregateRoot
//	    id     OrderID
//	    status Status
//	}
//
//	func CreateOrder(...) (*Order, error) {
//	    o := &Order{...}
//	    o.AddDomainEvent(newOrderCreatedEvent(o))
//	    return o, nil
//	}
type AggregateRoot struct {
	domainEvents []events.Event
}

// AddDomainEvent adds an event to the aggregate's uncommitted buffer.
func (a *AggregateRoot) AddDomainEvent(event events.Event) {
	a.domainEvents = append(a.domainEvents, event)
}

// UncommittedEvents returns a snapshot of the buffered events.
// Mutating the returned slice does not affect the aggregate.
func (a *AggregateRoot) UncommittedEvents() []events.Event {
	if len(a.domainEvents) == 0 {
		return nil
	}
	out := make([]events.Event, len(a.domainEvents))
	copy(out, a.domainEvents)
	return out
}

// MarkEventsAsCommitted clears the buffer after the events were handed to a publisher.
// Calling it on an empty buffer is a no-op.
func (a *AggregateRoot) MarkEventsAsCommitted() {
	a.domainEvents = nil
}

// ClearEvents drops buffered events without publishing them.
// Only the rehydration path uses it, so loading an aggregate never re-emits events.
func (a *AggregateRoot) ClearEvents() {
	a.domainEvents = nil
}

// PopUncommittedEvents returns the buffered events and clears the buffer.
func (a *AggregateRoot) PopUncommittedEvents() []events.Event {
	evts := a.domainEvents
	a.domainEvents = nil
	return evts
}
