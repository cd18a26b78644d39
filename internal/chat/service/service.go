package service

import (
	"context"

	"github.com/google/uuid"

	"freshr_backend/internal/chat/repository"
	"freshr_backend/internal/chat/transport"
	"freshr_backend/internal/events"
	"freshr_backend/platform/apperr"
	"freshr_backend/platform/logger"
)

const messageLimit = 200

// Service provides business logic for order-scoped chat sessions.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new chat service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Open creates the chat session for an order. Idempotent.
func (s *Service) Open(ctx context.Context, orderID, clientID, specialistID uuid.UUID) error {
	session, err := s.repo.Open(ctx, orderID, clientID, specialistID)
	if err != nil {
		return err
	}

	s.log.Info("chat session opened", "session_id", session.ID, "order_id", orderID)
	return nil
}

// Close deletes the chat session for an order, message history included.
// Idempotent.
func (s *Service) Close(ctx context.Context, orderID uuid.UUID) error {
	session, err := s.repo.GetByOrder(ctx, orderID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.Close(ctx, orderID); err != nil {
		return err
	}

	s.log.Info("chat session closed", "session_id", session.ID, "order_id", orderID)
	s.bus.Publish(ctx, events.ChatSessionClosed{
		BaseEvent: events.NewBaseEvent(),
		SessionID: session.ID,
		OrderID:   orderID,
	})
	return nil
}

// GetByOrder retrieves a session with its messages for one of its
// participants.
func (s *Service) GetByOrder(ctx context.Context, callerID, orderID uuid.UUID) (transport.SessionResponse, error) {
	session, err := s.repo.GetByOrder(ctx, orderID)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	if session.ClientID != callerID && session.SpecialistID != callerID {
		return transport.SessionResponse{}, apperr.Forbidden("chat session belongs to another order")
	}

	messages, err := s.repo.ListMessages(ctx, session.ID, messageLimit)
	if err != nil {
		return transport.SessionResponse{}, err
	}

	return toSessionResponse(session, messages), nil
}

// SendMessage appends a message from a participant to the order's session.
// A session only exists while the order is active, so there is no closed
// state to guard against.
func (s *Service) SendMessage(ctx context.Context, callerID, orderID uuid.UUID, req transport.SendMessageRequest) (transport.MessageResponse, error) {
	session, err := s.repo.GetByOrder(ctx, orderID)
	if err != nil {
		return transport.MessageResponse{}, err
	}
	if session.ClientID != callerID && session.SpecialistID != callerID {
		return transport.MessageResponse{}, apperr.Forbidden("chat session belongs to another order")
	}

	message, err := s.repo.InsertMessage(ctx, session.ID, callerID, req.Body)
	if err != nil {
		return transport.MessageResponse{}, err
	}

	return toMessageResponse(message), nil
}

func toSessionResponse(session repository.Session, messages []repository.Message) transport.SessionResponse {
	responses := make([]transport.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, toMessageResponse(message))
	}

	return transport.SessionResponse{
		ID:           session.ID,
		OrderID:      session.OrderID,
		ClientID:     session.ClientID,
		SpecialistID: session.SpecialistID,
		CreatedAt:    session.CreatedAt,
		Messages:     responses,
	}
}

func toMessageResponse(message repository.Message) transport.MessageResponse {
	return transport.MessageResponse{
		ID:        message.ID,
		SenderID:  message.SenderID,
		Body:      message.Body,
		CreatedAt: message.CreatedAt,
	}
}
