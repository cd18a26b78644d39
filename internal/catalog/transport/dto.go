package transport

import "github.com/google/uuid"

// CreateServiceTypeRequest contains data for creating a new service type.
type CreateServiceTypeRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateServiceTypeRequest contains data for updating an existing service type.
type UpdateServiceTypeRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// ServiceTypeResponse represents a service type in API responses.
type ServiceTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// ServiceTypeListResponse wraps a list of service types.
type ServiceTypeListResponse struct {
	Items []ServiceTypeResponse `json:"items"`
	Total int                   `json:"total"`
}

// CreateServiceRequest contains data for creating a specialist offering.
type CreateServiceRequest struct {
	ServiceTypeID   uuid.UUID `json:"serviceTypeId" validate:"required"`
	Name            string    `json:"name" validate:"required,min=1,max=100"`
	Description     *string   `json:"description,omitempty" validate:"omitempty,max=500"`
	PriceCents      int64     `json:"priceCents" validate:"required,min=0"`
	DurationMinutes int       `json:"durationMinutes" validate:"required,min=1,max=480"`
}

// UpdateServiceRequest contains data for updating a specialist offering.
type UpdateServiceRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=500"`
	PriceCents      *int64  `json:"priceCents,omitempty" validate:"omitempty,min=0"`
	DurationMinutes *int    `json:"durationMinutes,omitempty" validate:"omitempty,min=1,max=480"`
}

// ServiceResponse represents a specialist offering in API responses.
type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	SpecialistID    uuid.UUID `json:"specialistId"`
	ServiceTypeID   uuid.UUID `json:"serviceTypeId"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	PriceCents      int64     `json:"priceCents"`
	DurationMinutes int       `json:"durationMinutes"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

// ServiceListResponse wraps a list of specialist offerings.
type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
	Total int               `json:"total"`
}
