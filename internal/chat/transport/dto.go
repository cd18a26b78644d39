package transport

import "github.com/google/uuid"

// SendMessageRequest contains one message body.
type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

// MessageResponse represents a chat message in API responses.
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	SenderID  uuid.UUID `json:"senderId"`
	Body      string    `json:"body"`
	CreatedAt string    `json:"createdAt"`
}

// SessionResponse represents an order's chat session with its messages.
// Sessions are deleted when the order leaves the queue, so one being
// returned at all means the conversation is live.
type SessionResponse struct {
	ID           uuid.UUID         `json:"id"`
	OrderID      uuid.UUID         `json:"orderId"`
	ClientID     uuid.UUID         `json:"clientId"`
	SpecialistID uuid.UUID         `json:"specialistId"`
	CreatedAt    string            `json:"createdAt"`
	Messages     []MessageResponse `json:"messages"`
}
