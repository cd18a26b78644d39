// Package domain holds the order queue's core types and transition errors.
// Everything here is persistence- and transport-agnostic.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an order.
type Status string

const (
	// StatusPending means the order is paid and waiting in the queue.
	StatusPending Status = "PENDING"
	// StatusInTraffic means the specialist accepted and the client is on the way.
	StatusInTraffic Status = "IN_TRAFFIC"
	// StatusOngoing means the client arrived and servicing is underway.
	StatusOngoing Status = "ONGOING"
	// StatusCompleted is a terminal state: servicing finished.
	StatusCompleted Status = "COMPLETED"
	// StatusCancelled is a terminal state: rejected or cancelled before completion.
	StatusCancelled Status = "CANCELLED"
)

// Active reports whether the status occupies a queue slot.
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusInTraffic, StatusOngoing:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status ends the order's lifecycle.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order is one client's booking with one specialist.
//
// Queued orders form a doubly-linked chain per specialist: BeforeOrderID
// points toward the front, AfterOrderID toward the back. Position is the
// distance from the front of the queue (0 means currently being serviced) and
// is kept consistent with the chain on every transition.
type Order struct {
	ID           uuid.UUID
	ClientID     uuid.UUID
	SpecialistID uuid.UUID
	FacilityID   uuid.UUID

	Status   Status
	Position int

	BeforeOrderID *uuid.UUID
	AfterOrderID  *uuid.UUID

	// StartCode is set on accept and proves the client showed up in person.
	// EndCode is set on start and proves servicing actually happened.
	StartCode *string
	EndCode   *string

	PriceCents int64
	IsPaid     bool
	PaidAt     *time.Time

	// Delivery endpoints captured at checkout; identity is external.
	ClientPushToken *string
	ClientEmail     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Specialist is the queue-owner view the transition logic operates on.
// It mirrors the specialists row but carries only what transitions touch.
type Specialist struct {
	ID          uuid.UUID
	FacilityID  uuid.UUID
	DisplayName string
	PushToken   *string
	NotifyEmail *string

	IsQueueing bool
	IsBusy     bool
	QueueLen   int
	MaxQueue   int

	FrontOrderID *uuid.UUID
	BackOrderID  *uuid.UUID
}

// Facility is the seat-capacity view the transition logic operates on.
type Facility struct {
	ID             uuid.UUID
	Address        string
	TotalSeats     int
	AvailableSeats int
}

// OrderService is one line item on an order.
type OrderService struct {
	ServiceID  uuid.UUID
	Name       string
	PriceCents int64
}
