package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freshr_backend/platform/apperr"
)

const sessionNotFoundMessage = "chat session not found"

const sessionColumns = `id, order_id, client_id, specialist_id, created_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new chat repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Open creates the session for an order, or returns the existing one.
func (r *Repo) Open(ctx context.Context, orderID, clientID, specialistID uuid.UUID) (Session, error) {
	query := `
		INSERT INTO chat_sessions (order_id, client_id, specialist_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id) DO UPDATE SET order_id = EXCLUDED.order_id
		RETURNING ` + sessionColumns

	session, err := scanSession(r.pool.QueryRow(ctx, query, orderID, clientID, specialistID))
	if err != nil {
		return Session{}, fmt.Errorf("open chat session: %w", err)
	}
	return session, nil
}

// Close deletes the session for an order. Messages go with it through the
// cascade; history is not retained.
func (r *Repo) Close(ctx context.Context, orderID uuid.UUID) error {
	query := `DELETE FROM chat_sessions WHERE order_id = $1`

	if _, err := r.pool.Exec(ctx, query, orderID); err != nil {
		return fmt.Errorf("close chat session: %w", err)
	}
	return nil
}

// GetByOrder retrieves the session attached to an order.
func (r *Repo) GetByOrder(ctx context.Context, orderID uuid.UUID) (Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE order_id = $1`

	session, err := scanSession(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, apperr.NotFound(sessionNotFoundMessage)
		}
		return Session{}, fmt.Errorf("get chat session: %w", err)
	}
	return session, nil
}

// InsertMessage appends a message to a session.
func (r *Repo) InsertMessage(ctx context.Context, sessionID, senderID uuid.UUID, body string) (Message, error) {
	query := `
		INSERT INTO chat_messages (session_id, sender_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, session_id, sender_id, body, created_at`

	var message Message
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, query, sessionID, senderID, body).Scan(
		&message.ID, &message.SessionID, &message.SenderID, &message.Body, &createdAt,
	)
	if err != nil {
		return Message{}, fmt.Errorf("insert chat message: %w", err)
	}

	message.CreatedAt = createdAt.Format(time.RFC3339)
	return message, nil
}

// ListMessages retrieves a session's messages, oldest first.
func (r *Repo) ListMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]Message, error) {
	query := `
		SELECT id, session_id, sender_id, body, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	items := make([]Message, 0)
	for rows.Next() {
		var message Message
		var createdAt time.Time
		if err := rows.Scan(&message.ID, &message.SessionID, &message.SenderID, &message.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		message.CreatedAt = createdAt.Format(time.RFC3339)
		items = append(items, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", err)
	}
	return items, nil
}

func scanSession(row pgx.Row) (Session, error) {
	var session Session
	var createdAt time.Time

	err := row.Scan(
		&session.ID, &session.OrderID, &session.ClientID, &session.SpecialistID,
		&createdAt,
	)
	if err != nil {
		return Session{}, err
	}

	session.CreatedAt = createdAt.Format(time.RFC3339)
	return session, nil
}
