package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"freshr_backend/internal/catalog/repository"
	"freshr_backend/internal/catalog/transport"
	"freshr_backend/platform/apperr"
	"freshr_backend/platform/logger"
)

// Service provides business logic for the service catalog.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetServiceType retrieves a service type by ID.
func (s *Service) GetServiceType(ctx context.Context, id uuid.UUID) (transport.ServiceTypeResponse, error) {
	st, err := s.repo.GetServiceTypeByID(ctx, id)
	if err != nil {
		return transport.ServiceTypeResponse{}, err
	}
	return toServiceTypeResponse(st), nil
}

// GetServiceTypeBySlug retrieves a service type by slug.
func (s *Service) GetServiceTypeBySlug(ctx context.Context, slug string) (transport.ServiceTypeResponse, error) {
	st, err := s.repo.GetServiceTypeBySlug(ctx, slug)
	if err != nil {
		return transport.ServiceTypeResponse{}, err
	}
	return toServiceTypeResponse(st), nil
}

// ListServiceTypes retrieves all service types (admin list).
func (s *Service) ListServiceTypes(ctx context.Context) (transport.ServiceTypeListResponse, error) {
	items, err := s.repo.ListServiceTypes(ctx)
	if err != nil {
		return transport.ServiceTypeListResponse{}, err
	}
	return toServiceTypeListResponse(items), nil
}

// ListActiveServiceTypes retrieves only active service types.
func (s *Service) ListActiveServiceTypes(ctx context.Context) (transport.ServiceTypeListResponse, error) {
	items, err := s.repo.ListActiveServiceTypes(ctx)
	if err != nil {
		return transport.ServiceTypeListResponse{}, err
	}
	return toServiceTypeListResponse(items), nil
}

// CreateServiceType creates a new service type.
func (s *Service) CreateServiceType(ctx context.Context, req transport.CreateServiceTypeRequest) (transport.ServiceTypeResponse, error) {
	params := repository.CreateServiceTypeParams{
		Name:        req.Name,
		Slug:        generateSlug(req.Name),
		Description: req.Description,
	}

	st, err := s.repo.CreateServiceType(ctx, params)
	if err != nil {
		return transport.ServiceTypeResponse{}, err
	}

	s.log.Info("service type created", "id", st.ID, "name", st.Name, "slug", st.Slug)
	return toServiceTypeResponse(st), nil
}

// UpdateServiceType updates an existing service type. Renaming regenerates the slug.
func (s *Service) UpdateServiceType(ctx context.Context, id uuid.UUID, req transport.UpdateServiceTypeRequest) (transport.ServiceTypeResponse, error) {
	var slug *string
	if req.Name != nil {
		newSlug := generateSlug(*req.Name)
		slug = &newSlug
	}

	st, err := s.repo.UpdateServiceType(ctx, repository.UpdateServiceTypeParams{
		ID:          id,
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
	})
	if err != nil {
		return transport.ServiceTypeResponse{}, err
	}

	return toServiceTypeResponse(st), nil
}

// DeleteServiceType removes a service type.
func (s *Service) DeleteServiceType(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteServiceType(ctx, id)
}

// ToggleServiceTypeActive flips the is_active flag.
func (s *Service) ToggleServiceTypeActive(ctx context.Context, id uuid.UUID) (transport.ServiceTypeResponse, error) {
	st, err := s.repo.GetServiceTypeByID(ctx, id)
	if err != nil {
		return transport.ServiceTypeResponse{}, err
	}

	if err := s.repo.SetServiceTypeActive(ctx, id, !st.IsActive); err != nil {
		return transport.ServiceTypeResponse{}, err
	}

	st.IsActive = !st.IsActive
	return toServiceTypeResponse(st), nil
}

// ListSpecialistServices retrieves the active offerings of one specialist.
func (s *Service) ListSpecialistServices(ctx context.Context, specialistID uuid.UUID) (transport.ServiceListResponse, error) {
	items, err := s.repo.ListServicesBySpecialist(ctx, specialistID)
	if err != nil {
		return transport.ServiceListResponse{}, err
	}
	return toServiceListResponse(items), nil
}

// GetOfferings retrieves offerings by ID, failing if any requested offering is
// missing or inactive. Used when pricing an order.
func (s *Service) GetOfferings(ctx context.Context, ids []uuid.UUID) ([]transport.ServiceResponse, error) {
	if len(ids) == 0 {
		return nil, apperr.BadRequest("at least one service is required")
	}

	items, err := s.repo.ListServicesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !item.IsActive {
			return nil, apperr.BadRequest("service is no longer offered")
		}
		found[item.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, apperr.NotFound("service not found")
		}
	}

	responses := make([]transport.ServiceResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toServiceResponse(item))
	}
	return responses, nil
}

// CreateService creates an offering owned by the given specialist.
func (s *Service) CreateService(ctx context.Context, specialistID uuid.UUID, req transport.CreateServiceRequest) (transport.ServiceResponse, error) {
	if _, err := s.repo.GetServiceTypeByID(ctx, req.ServiceTypeID); err != nil {
		return transport.ServiceResponse{}, err
	}

	svc, err := s.repo.CreateService(ctx, repository.CreateServiceParams{
		SpecialistID:    specialistID,
		ServiceTypeID:   req.ServiceTypeID,
		Name:            req.Name,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("service created", "id", svc.ID, "specialist_id", specialistID, "name", svc.Name)
	return toServiceResponse(svc), nil
}

// UpdateService updates an offering owned by the given specialist.
func (s *Service) UpdateService(ctx context.Context, specialistID, id uuid.UUID, req transport.UpdateServiceRequest) (transport.ServiceResponse, error) {
	svc, err := s.repo.UpdateService(ctx, repository.UpdateServiceParams{
		ID:              id,
		SpecialistID:    specialistID,
		Name:            req.Name,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	return toServiceResponse(svc), nil
}

// DeleteService retires an offering owned by the given specialist.
func (s *Service) DeleteService(ctx context.Context, specialistID, id uuid.UUID) error {
	return s.repo.DeleteService(ctx, specialistID, id)
}

func toServiceTypeResponse(st repository.ServiceType) transport.ServiceTypeResponse {
	return transport.ServiceTypeResponse{
		ID:          st.ID,
		Name:        st.Name,
		Slug:        st.Slug,
		Description: st.Description,
		IsActive:    st.IsActive,
		CreatedAt:   st.CreatedAt,
		UpdatedAt:   st.UpdatedAt,
	}
}

func toServiceTypeListResponse(items []repository.ServiceType) transport.ServiceTypeListResponse {
	responses := make([]transport.ServiceTypeResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toServiceTypeResponse(item))
	}
	return transport.ServiceTypeListResponse{Items: responses, Total: len(responses)}
}

func toServiceResponse(svc repository.Service) transport.ServiceResponse {
	return transport.ServiceResponse{
		ID:              svc.ID,
		SpecialistID:    svc.SpecialistID,
		ServiceTypeID:   svc.ServiceTypeID,
		Name:            svc.Name,
		Description:     svc.Description,
		PriceCents:      svc.PriceCents,
		DurationMinutes: svc.DurationMinutes,
		IsActive:        svc.IsActive,
		CreatedAt:       svc.CreatedAt,
		UpdatedAt:       svc.UpdatedAt,
	}
}

func toServiceListResponse(items []repository.Service) transport.ServiceListResponse {
	responses := make([]transport.ServiceResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toServiceResponse(item))
	}
	return transport.ServiceListResponse{Items: responses, Total: len(responses)}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
