package transport

import "github.com/google/uuid"

// CheckoutRequest contains data for creating an unpaid order.
// Contact fields are optional delivery endpoints for notifications.
type CheckoutRequest struct {
	SpecialistID uuid.UUID   `json:"specialistId" validate:"required"`
	ServiceIDs   []uuid.UUID `json:"serviceIds" validate:"required,min=1,max=20,dive,required"`
	PushToken    *string     `json:"pushToken,omitempty" validate:"omitempty,max=255"`
	Email        *string     `json:"email,omitempty" validate:"omitempty,email"`
}

// OrderServiceResponse is one line item on an order.
type OrderServiceResponse struct {
	ServiceID  uuid.UUID `json:"serviceId"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"priceCents"`
}

// OrderResponse represents an order in API responses.
// Verification codes are only disclosed to the client who owns the order;
// the specialist proves them back through the transition endpoints.
type OrderResponse struct {
	ID           uuid.UUID              `json:"id"`
	ClientID     uuid.UUID              `json:"clientId"`
	SpecialistID uuid.UUID              `json:"specialistId"`
	FacilityID   uuid.UUID              `json:"facilityId"`
	Status       string                 `json:"status"`
	Position     int                    `json:"position"`
	PriceCents   int64                  `json:"priceCents"`
	IsPaid       bool                   `json:"isPaid"`
	StartCode    *string                `json:"startCode,omitempty"`
	EndCode      *string                `json:"endCode,omitempty"`
	Services     []OrderServiceResponse `json:"services,omitempty"`
	CreatedAt    string                 `json:"createdAt"`
	UpdatedAt    string                 `json:"updatedAt"`
}

// QueueEntryResponse is one order in a specialist's queue snapshot.
type QueueEntryResponse struct {
	OrderID    uuid.UUID `json:"orderId"`
	ClientID   uuid.UUID `json:"clientId"`
	Status     string    `json:"status"`
	Position   int       `json:"position"`
	PriceCents int64     `json:"priceCents"`
	CreatedAt  string    `json:"createdAt"`
}

// QueueResponse is the front-to-back snapshot of a specialist's queue.
type QueueResponse struct {
	SpecialistID uuid.UUID            `json:"specialistId"`
	QueueLen     int                  `json:"queueLen"`
	MaxQueue     int                  `json:"maxQueue"`
	IsBusy       bool                 `json:"isBusy"`
	Entries      []QueueEntryResponse `json:"entries"`
}

// TransitionResponse pairs the mutated order with the resulting queue
// snapshot. The snapshot is taken before the specialist lock is released, so
// it reflects exactly the state this transition produced.
type TransitionResponse struct {
	Order OrderResponse `json:"order"`
	Queue QueueResponse `json:"queue"`
}

// OrderListResponse wraps a list of orders.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Total int             `json:"total"`
}
