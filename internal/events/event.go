// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"freshr_backend/platform/events"

	"github.com/google/uuid"
)

// Aliases so event producers and subscribers only import this package.
type (
	Event     = events.Event
	Bus       = events.Bus
	Handler   = events.Handler
	BaseEvent = events.BaseEvent
)

var NewBaseEvent = events.NewBaseEvent

// Contact carries the delivery endpoints for one party of an order. Identity
// and user storage are external collaborators, so contact data is captured at
// checkout time and travels with the event.
type Contact struct {
	UserID    uuid.UUID `json:"userId"`
	PushToken string    `json:"pushToken,omitempty"`
	Email     string    `json:"email,omitempty"`
}

// =============================================================================
// Order Lifecycle Events
// =============================================================================

// OrderQueued is published when payment is confirmed and the order is linked
// into the specialist's queue.
type OrderQueued struct {
	BaseEvent
	OrderID         uuid.UUID `json:"orderId"`
	SpecialistID    uuid.UUID `json:"specialistId"`
	FacilityAddress string    `json:"facilityAddress"`
	Position        int       `json:"position"`
	Client          Contact   `json:"client"`
	Specialist      Contact   `json:"specialist"`
}

func (e OrderQueued) EventName() string { return "orders.order.queued" }

// OrderAccepted is published when the specialist accepts the front order
// (PENDING -> IN_TRAFFIC).
type OrderAccepted struct {
	BaseEvent
	OrderID         uuid.UUID `json:"orderId"`
	SpecialistID    uuid.UUID `json:"specialistId"`
	FacilityAddress string    `json:"facilityAddress"`
	Client          Contact   `json:"client"`
}

func (e OrderAccepted) EventName() string { return "orders.order.accepted" }

// OrderStarted is published when servicing begins (IN_TRAFFIC -> ONGOING).
type OrderStarted struct {
	BaseEvent
	OrderID      uuid.UUID `json:"orderId"`
	SpecialistID uuid.UUID `json:"specialistId"`
	Client       Contact   `json:"client"`
}

func (e OrderStarted) EventName() string { return "orders.order.started" }

// OrderCompleted is published when the front order finishes servicing
// (ONGOING -> COMPLETED).
type OrderCompleted struct {
	BaseEvent
	OrderID      uuid.UUID `json:"orderId"`
	SpecialistID uuid.UUID `json:"specialistId"`
	PriceCents   int64     `json:"priceCents"`
	Client       Contact   `json:"client"`
	Specialist   Contact   `json:"specialist"`
}

func (e OrderCompleted) EventName() string { return "orders.order.completed" }

// OrderCancelled is published when the front order is rejected or cancelled
// from PENDING or IN_TRAFFIC.
type OrderCancelled struct {
	BaseEvent
	OrderID      uuid.UUID `json:"orderId"`
	SpecialistID uuid.UUID `json:"specialistId"`
	FromStatus   string    `json:"fromStatus"`
	Client       Contact   `json:"client"`
	Specialist   Contact   `json:"specialist"`
}

func (e OrderCancelled) EventName() string { return "orders.order.cancelled" }

// =============================================================================
// Chat Events
// =============================================================================

// ChatSessionClosed is published when an order leaves its active window and
// the session is destroyed. Useful for real-time transports (external) to
// disconnect participants.
type ChatSessionClosed struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	OrderID   uuid.UUID `json:"orderId"`
}

func (e ChatSessionClosed) EventName() string { return "chat.session.closed" }
