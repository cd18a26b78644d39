package transport

import "github.com/google/uuid"

// UpsertProfileRequest contains data for creating or updating a profile.
type UpsertProfileRequest struct {
	FacilityID  uuid.UUID `json:"facilityId" validate:"required"`
	DisplayName string    `json:"displayName" validate:"required,min=1,max=100"`
	Bio         *string   `json:"bio,omitempty" validate:"omitempty,max=1000"`
}

// UpdateContactRequest contains the notification endpoints to register.
type UpdateContactRequest struct {
	PushToken   *string `json:"pushToken,omitempty" validate:"omitempty,max=255"`
	NotifyEmail *string `json:"notifyEmail,omitempty" validate:"omitempty,email"`
}

// SetAvailabilityRequest toggles whether the specialist is listed.
type SetAvailabilityRequest struct {
	IsAvailable bool `json:"isAvailable"`
}

// SetQueueingRequest toggles whether orders may queue behind the current one.
type SetQueueingRequest struct {
	IsQueueing bool `json:"isQueueing"`
}

// SpecialistResponse represents a specialist in API responses.
// Queue head/tail pointers stay internal; clients get the derived counts.
type SpecialistResponse struct {
	ID          uuid.UUID `json:"id"`
	FacilityID  uuid.UUID `json:"facilityId"`
	DisplayName string    `json:"displayName"`
	Bio         *string   `json:"bio,omitempty"`
	IsAvailable bool      `json:"isAvailable"`
	IsQueueing  bool      `json:"isQueueing"`
	IsBusy      bool      `json:"isBusy"`
	QueueLen    int       `json:"queueLen"`
	MaxQueue    int       `json:"maxQueue"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// SpecialistListResponse wraps a list of specialists.
type SpecialistListResponse struct {
	Items []SpecialistResponse `json:"items"`
	Total int                  `json:"total"`
}
