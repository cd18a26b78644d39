package service

import (
	"context"

	"github.com/google/uuid"

	"freshr_backend/internal/specialists/repository"
	"freshr_backend/internal/specialists/transport"
	"freshr_backend/platform/apperr"
	"freshr_backend/platform/config"
	"freshr_backend/platform/logger"
)

// Service provides business logic for specialist profiles.
type Service struct {
	repo repository.Repository
	cfg  config.QueueConfig
	log  *logger.Logger
}

// New creates a new specialists service.
func New(repo repository.Repository, cfg config.QueueConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// GetByID retrieves a specialist by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.SpecialistResponse, error) {
	specialist, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.SpecialistResponse{}, err
	}
	return toResponse(specialist), nil
}

// ListByFacility retrieves available specialists working at one facility.
func (s *Service) ListByFacility(ctx context.Context, facilityID uuid.UUID) (transport.SpecialistListResponse, error) {
	items, err := s.repo.ListByFacility(ctx, facilityID)
	if err != nil {
		return transport.SpecialistListResponse{}, err
	}

	responses := make([]transport.SpecialistResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toResponse(item))
	}
	return transport.SpecialistListResponse{Items: responses, Total: len(responses)}, nil
}

// UpsertProfile creates or updates the caller's specialist profile.
// New profiles start with the configured queue limit.
func (s *Service) UpsertProfile(ctx context.Context, id uuid.UUID, req transport.UpsertProfileRequest) (transport.SpecialistResponse, error) {
	specialist, err := s.repo.Upsert(ctx, repository.UpsertParams{
		ID:          id,
		FacilityID:  req.FacilityID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		MaxQueue:    s.cfg.GetDefaultMaxQueue(),
	})
	if err != nil {
		return transport.SpecialistResponse{}, err
	}

	s.log.Info("specialist profile upserted", "id", specialist.ID, "facility_id", specialist.FacilityID)
	return toResponse(specialist), nil
}

// UpdateContact registers the caller's notification endpoints.
func (s *Service) UpdateContact(ctx context.Context, id uuid.UUID, req transport.UpdateContactRequest) error {
	return s.repo.UpdateContact(ctx, repository.UpdateContactParams{
		ID:          id,
		PushToken:   req.PushToken,
		NotifyEmail: req.NotifyEmail,
	})
}

// SetAvailability toggles whether the specialist is listed at their facility.
// Going unavailable with clients still queued would strand them, so the queue
// must be drained first.
func (s *Service) SetAvailability(ctx context.Context, id uuid.UUID, isAvailable bool) error {
	if !isAvailable {
		specialist, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if specialist.QueueLen > 0 {
			return apperr.Conflict("queue must be empty before going unavailable").
				WithCode("QUEUE_NOT_EMPTY")
		}
	}

	if err := s.repo.SetAvailability(ctx, id, isAvailable); err != nil {
		return err
	}

	s.log.Info("specialist availability changed", "id", id, "is_available", isAvailable)
	return nil
}

// SetQueueing toggles whether orders may queue behind the one being serviced.
// Turning queueing off never evicts queued orders; it only stops admissions.
func (s *Service) SetQueueing(ctx context.Context, id uuid.UUID, isQueueing bool) error {
	if err := s.repo.SetQueueing(ctx, id, isQueueing); err != nil {
		return err
	}

	s.log.Info("specialist queueing changed", "id", id, "is_queueing", isQueueing)
	return nil
}

func toResponse(specialist repository.Specialist) transport.SpecialistResponse {
	return transport.SpecialistResponse{
		ID:          specialist.ID,
		FacilityID:  specialist.FacilityID,
		DisplayName: specialist.DisplayName,
		Bio:         specialist.Bio,
		IsAvailable: specialist.IsAvailable,
		IsQueueing:  specialist.IsQueueing,
		IsBusy:      specialist.IsBusy,
		QueueLen:    specialist.QueueLen,
		MaxQueue:    specialist.MaxQueue,
		CreatedAt:   specialist.CreatedAt,
		UpdatedAt:   specialist.UpdatedAt,
	}
}
