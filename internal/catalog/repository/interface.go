package repository

import (
	"context"

	"github.com/google/uuid"
)

// ServiceType represents a service category (e.g. haircut, beard trim).
type ServiceType struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description *string   `db:"description"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   string    `db:"created_at"`
	UpdatedAt   string    `db:"updated_at"`
}

// Service represents a concrete offering by a specialist, priced in cents.
type Service struct {
	ID              uuid.UUID `db:"id"`
	SpecialistID    uuid.UUID `db:"specialist_id"`
	ServiceTypeID   uuid.UUID `db:"service_type_id"`
	Name            string    `db:"name"`
	Description     *string   `db:"description"`
	PriceCents      int64     `db:"price_cents"`
	DurationMinutes int       `db:"duration_minutes"`
	IsActive        bool      `db:"is_active"`
	CreatedAt       string    `db:"created_at"`
	UpdatedAt       string    `db:"updated_at"`
}

// CreateServiceTypeParams contains parameters for creating a service type.
type CreateServiceTypeParams struct {
	Name        string
	Slug        string
	Description *string
}

// UpdateServiceTypeParams contains parameters for updating a service type.
type UpdateServiceTypeParams struct {
	ID          uuid.UUID
	Name        *string
	Slug        *string
	Description *string
}

// CreateServiceParams contains parameters for creating a specialist offering.
type CreateServiceParams struct {
	SpecialistID    uuid.UUID
	ServiceTypeID   uuid.UUID
	Name            string
	Description     *string
	PriceCents      int64
	DurationMinutes int
}

// UpdateServiceParams contains parameters for updating a specialist offering.
type UpdateServiceParams struct {
	ID              uuid.UUID
	SpecialistID    uuid.UUID
	Name            *string
	Description     *string
	PriceCents      *int64
	DurationMinutes *int
}

// ServiceTypeReader provides read operations for service types.
type ServiceTypeReader interface {
	GetServiceTypeByID(ctx context.Context, id uuid.UUID) (ServiceType, error)
	GetServiceTypeBySlug(ctx context.Context, slug string) (ServiceType, error)
	ListServiceTypes(ctx context.Context) ([]ServiceType, error)
	ListActiveServiceTypes(ctx context.Context) ([]ServiceType, error)
}

// ServiceTypeWriter provides write operations for service types.
type ServiceTypeWriter interface {
	CreateServiceType(ctx context.Context, params CreateServiceTypeParams) (ServiceType, error)
	UpdateServiceType(ctx context.Context, params UpdateServiceTypeParams) (ServiceType, error)
	DeleteServiceType(ctx context.Context, id uuid.UUID) error
	SetServiceTypeActive(ctx context.Context, id uuid.UUID, isActive bool) error
}

// ServiceReader provides read operations for specialist offerings.
type ServiceReader interface {
	GetServiceByID(ctx context.Context, id uuid.UUID) (Service, error)
	ListServicesBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]Service, error)
	ListServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]Service, error)
}

// ServiceWriter provides write operations for specialist offerings.
type ServiceWriter interface {
	CreateService(ctx context.Context, params CreateServiceParams) (Service, error)
	UpdateService(ctx context.Context, params UpdateServiceParams) (Service, error)
	DeleteService(ctx context.Context, specialistID, id uuid.UUID) error
}

// Repository combines all catalog repository operations.
type Repository interface {
	ServiceTypeReader
	ServiceTypeWriter
	ServiceReader
	ServiceWriter
}
