// Package events provides the event bus the order lifecycle publishes on.
// Modules subscribe during startup and react to queue transitions without
// the transition code knowing about them. No business logic lives here.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event carried on the bus.
type Event interface {
	// EventName identifies the event type, e.g. "orders.order.queued".
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
}

// BaseEvent carries the fields shared by all events and is embedded by each
// event struct.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a new base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler reacts to events it subscribed to. Returning an error never
// affects the operation that published the event; the bus logs and drops it.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// Bus publishes domain events to subscribed handlers.
type Bus interface {
	// Publish delivers the event to its subscribers asynchronously.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers the event and waits for every handler.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for one event name, as returned by
	// Event.EventName.
	Subscribe(eventName string, handler Handler)
}
