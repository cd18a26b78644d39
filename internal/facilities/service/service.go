package service

import (
	"context"

	"github.com/google/uuid"

	"freshr_backend/internal/facilities/repository"
	"freshr_backend/internal/facilities/transport"
	"freshr_backend/platform/logger"
)

// Service provides business logic for facilities.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new facilities service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID retrieves a facility by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.FacilityResponse, error) {
	facility, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.FacilityResponse{}, err
	}
	return toResponse(facility), nil
}

// List retrieves active facilities, optionally filtered by city.
func (s *Service) List(ctx context.Context, city string) (transport.FacilityListResponse, error) {
	var items []repository.Facility
	var err error

	if city != "" {
		items, err = s.repo.ListByCity(ctx, city)
	} else {
		items, err = s.repo.List(ctx)
	}
	if err != nil {
		return transport.FacilityListResponse{}, err
	}

	return toListResponse(items), nil
}

// Create creates a new facility with all seats available.
func (s *Service) Create(ctx context.Context, req transport.CreateFacilityRequest) (transport.FacilityResponse, error) {
	facility, err := s.repo.Create(ctx, repository.CreateParams{
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		TotalSeats: req.TotalSeats,
	})
	if err != nil {
		return transport.FacilityResponse{}, err
	}

	s.log.Info("facility created", "id", facility.ID, "name", facility.Name, "seats", facility.TotalSeats)
	return toResponse(facility), nil
}

// Update updates a facility's descriptive fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateFacilityRequest) (transport.FacilityResponse, error) {
	facility, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:        id,
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return transport.FacilityResponse{}, err
	}

	return toResponse(facility), nil
}

// SetActive opens or closes a facility for new business.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	return s.repo.SetActive(ctx, id, isActive)
}

func toResponse(facility repository.Facility) transport.FacilityResponse {
	return transport.FacilityResponse{
		ID:             facility.ID,
		Name:           facility.Name,
		Address:        facility.Address,
		City:           facility.City,
		Latitude:       facility.Latitude,
		Longitude:      facility.Longitude,
		TotalSeats:     facility.TotalSeats,
		AvailableSeats: facility.AvailableSeats,
		IsActive:       facility.IsActive,
		CreatedAt:      facility.CreatedAt,
		UpdatedAt:      facility.UpdatedAt,
	}
}

func toListResponse(items []repository.Facility) transport.FacilityListResponse {
	responses := make([]transport.FacilityResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toResponse(item))
	}
	return transport.FacilityListResponse{Items: responses, Total: len(responses)}
}
