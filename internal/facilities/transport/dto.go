package transport

import "github.com/google/uuid"

// CreateFacilityRequest contains data for creating a facility.
type CreateFacilityRequest struct {
	Name       string   `json:"name" validate:"required,min=1,max=120"`
	Address    string   `json:"address" validate:"required,min=1,max=255"`
	City       string   `json:"city" validate:"required,min=1,max=80"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	TotalSeats int      `json:"totalSeats" validate:"required,min=1,max=200"`
}

// UpdateFacilityRequest contains data for updating a facility.
type UpdateFacilityRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Address   *string  `json:"address,omitempty" validate:"omitempty,min=1,max=255"`
	City      *string  `json:"city,omitempty" validate:"omitempty,min=1,max=80"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// FacilityResponse represents a facility in API responses.
type FacilityResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	TotalSeats     int       `json:"totalSeats"`
	AvailableSeats int       `json:"availableSeats"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      string    `json:"createdAt"`
	UpdatedAt      string    `json:"updatedAt"`
}

// FacilityListResponse wraps a list of facilities.
type FacilityListResponse struct {
	Items []FacilityResponse `json:"items"`
	Total int                `json:"total"`
}
