// Package events provides domain event infrastructure for inter-module communication.
// Events enable loose coupling between modules - modules publish events without
// knowing who will handle them or which transport carries them.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultVersion is the schema version of an event unless stated otherwise.
const DefaultVersion = 1

// Event represents a domain event that occurred in the system.
// Events are immutable facts about something that happened.
type Event interface {
	// EventID returns the unique identifier for this event instance.
	EventID() string
	// EventName returns the stable discriminator of the event (e.g., "OrderCreated").
	EventName() string
	// EventVersion returns the schema version of the event payload.
	EventVersion() int
	// OccurredOn returns when the event occurred.
	OccurredOn() time.Time
	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string
}

// BaseEvent provides common event fields. Embed this in concrete event types.
// The fields are excluded from JSON payloads; transports carry them as
// envelope metadata.
type BaseEvent struct {
	ID          string    `json:"-"`
	Name        string    `json:"-"`
	Version     int       `json:"-"`
	Timestamp   time.Time `json:"-"`
	AggregateId string    `json:"-"`
}

func NewBaseEvent(name, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Name:        name,
		Version:     DefaultVersion,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventName() string     { return e.Name }
func (e BaseEvent) EventVersion() int     { return e.Version }
func (e BaseEvent) OccurredOn() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.AggregateId }

// Publisher publishes domain events for other modules to consume.
// PublishAll is all-or-error from the caller's perspective, but a strict
// subset of the events may already have been emitted when it fails.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	PublishAll(ctx context.Context, events []Event) error
}

// Handler handles a specific type of domain event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// Subscriber subscribes to domain events.
type Subscriber interface {
	Subscribe(eventName string, handler Handler) error
}

// HandlerFunc is an adapter to use ordinary functions as event handlers.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}
