package repository

import (
	"context"

	"github.com/google/uuid"
)

// Specialist represents a service provider working at a facility.
// The specialist's ID equals the user ID issued by the identity provider.
//
// QueueLen, MaxQueue, FrontOrderID and BackOrderID describe the specialist's
// order queue. Those columns are mutated only by the orders module inside its
// transition transactions; this repository reads them but never writes them.
type Specialist struct {
	ID           uuid.UUID  `db:"id"`
	FacilityID   uuid.UUID  `db:"facility_id"`
	DisplayName  string     `db:"display_name"`
	Bio          *string    `db:"bio"`
	PushToken    *string    `db:"push_token"`
	NotifyEmail  *string    `db:"notify_email"`
	IsAvailable  bool       `db:"is_available"`
	IsQueueing   bool       `db:"is_queueing"`
	IsBusy       bool       `db:"is_busy"`
	QueueLen     int        `db:"queue_len"`
	MaxQueue     int        `db:"max_queue"`
	FrontOrderID *uuid.UUID `db:"front_order_id"`
	BackOrderID  *uuid.UUID `db:"back_order_id"`
	CreatedAt    string     `db:"created_at"`
	UpdatedAt    string     `db:"updated_at"`
}

// UpsertParams contains parameters for creating or updating a profile.
type UpsertParams struct {
	ID          uuid.UUID
	FacilityID  uuid.UUID
	DisplayName string
	Bio         *string
	MaxQueue    int
}

// UpdateContactParams contains the delivery endpoints a specialist registers
// for notifications.
type UpdateContactParams struct {
	ID          uuid.UUID
	PushToken   *string
	NotifyEmail *string
}

// Repository provides specialist persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Specialist, error)
	ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]Specialist, error)
	Upsert(ctx context.Context, params UpsertParams) (Specialist, error)
	UpdateContact(ctx context.Context, params UpdateContactParams) error
	SetAvailability(ctx context.Context, id uuid.UUID, isAvailable bool) error
	SetQueueing(ctx context.Context, id uuid.UUID, isQueueing bool) error
}
