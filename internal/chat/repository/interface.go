package repository

import (
	"context"

	"github.com/google/uuid"
)

// Session is an order-scoped chat window between a client and a specialist.
// It exists exactly while the order is active in the queue; closing deletes
// it together with its messages.
type Session struct {
	ID           uuid.UUID `db:"id"`
	OrderID      uuid.UUID `db:"order_id"`
	ClientID     uuid.UUID `db:"client_id"`
	SpecialistID uuid.UUID `db:"specialist_id"`
	CreatedAt    string    `db:"created_at"`
}

// Message is one chat message inside a session.
type Message struct {
	ID        uuid.UUID `db:"id"`
	SessionID uuid.UUID `db:"session_id"`
	SenderID  uuid.UUID `db:"sender_id"`
	Body      string    `db:"body"`
	CreatedAt string    `db:"created_at"`
}

// Repository provides chat persistence operations.
type Repository interface {
	// Open creates the session for an order, or returns the existing one.
	Open(ctx context.Context, orderID, clientID, specialistID uuid.UUID) (Session, error)
	// Close deletes the session for an order together with its messages.
	// Closing a missing session is a no-op.
	Close(ctx context.Context, orderID uuid.UUID) error
	GetByOrder(ctx context.Context, orderID uuid.UUID) (Session, error)
	InsertMessage(ctx context.Context, sessionID, senderID uuid.UUID, body string) (Message, error)
	ListMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]Message, error)
}
