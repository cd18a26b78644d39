package repository

import (
	"context"

	"github.com/google/uuid"
)

// Facility represents a physical location with a bounded number of seats.
// AvailableSeats is the capacity gate: a specialist may only pull a client
// into servicing while a seat is free.
type Facility struct {
	ID             uuid.UUID `db:"id"`
	Name           string    `db:"name"`
	Address        string    `db:"address"`
	City           string    `db:"city"`
	Latitude       *float64  `db:"latitude"`
	Longitude      *float64  `db:"longitude"`
	TotalSeats     int       `db:"total_seats"`
	AvailableSeats int       `db:"available_seats"`
	IsActive       bool      `db:"is_active"`
	CreatedAt      string    `db:"created_at"`
	UpdatedAt      string    `db:"updated_at"`
}

// CreateParams contains parameters for creating a facility.
type CreateParams struct {
	Name       string
	Address    string
	City       string
	Latitude   *float64
	Longitude  *float64
	TotalSeats int
}

// UpdateParams contains parameters for updating a facility.
type UpdateParams struct {
	ID        uuid.UUID
	Name      *string
	Address   *string
	City      *string
	Latitude  *float64
	Longitude *float64
}

// Repository provides facility persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Facility, error)
	List(ctx context.Context) ([]Facility, error)
	ListByCity(ctx context.Context, city string) ([]Facility, error)
	Create(ctx context.Context, params CreateParams) (Facility, error)
	Update(ctx context.Context, params UpdateParams) (Facility, error)
	SetActive(ctx context.Context, id uuid.UUID, isActive bool) error
}
