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

const (
	serviceTypeNotFoundMessage = "service type not found"
	serviceNotFoundMessage     = "service not found"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const serviceTypeColumns = `id, name, slug, description, is_active, created_at, updated_at`

// GetServiceTypeByID retrieves a service type by its ID.
func (r *Repo) GetServiceTypeByID(ctx context.Context, id uuid.UUID) (ServiceType, error) {
	query := `SELECT ` + serviceTypeColumns + ` FROM service_types WHERE id = $1`

	st, err := scanServiceType(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceType{}, apperr.NotFound(serviceTypeNotFoundMessage)
		}
		return ServiceType{}, fmt.Errorf("get service type by id: %w", err)
	}

	return st, nil
}

// GetServiceTypeBySlug retrieves a service type by its slug.
func (r *Repo) GetServiceTypeBySlug(ctx context.Context, slug string) (ServiceType, error) {
	query := `SELECT ` + serviceTypeColumns + ` FROM service_types WHERE slug = $1`

	st, err := scanServiceType(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceType{}, apperr.NotFound(serviceTypeNotFoundMessage)
		}
		return ServiceType{}, fmt.Errorf("get service type by slug: %w", err)
	}

	return st, nil
}

// ListServiceTypes retrieves all service types ordered by name.
func (r *Repo) ListServiceTypes(ctx context.Context) ([]ServiceType, error) {
	query := `SELECT ` + serviceTypeColumns + ` FROM service_types ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list service types: %w", err)
	}
	defer rows.Close()

	return scanServiceTypes(rows)
}

// ListActiveServiceTypes retrieves only active service types ordered by name.
func (r *Repo) ListActiveServiceTypes(ctx context.Context) ([]ServiceType, error) {
	query := `SELECT ` + serviceTypeColumns + ` FROM service_types WHERE is_active = true ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active service types: %w", err)
	}
	defer rows.Close()

	return scanServiceTypes(rows)
}

// CreateServiceType creates a new service type.
func (r *Repo) CreateServiceType(ctx context.Context, params CreateServiceTypeParams) (ServiceType, error) {
	query := `
		INSERT INTO service_types (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING ` + serviceTypeColumns

	st, err := scanServiceType(r.pool.QueryRow(ctx, query, params.Name, params.Slug, params.Description))
	if err != nil {
		return ServiceType{}, fmt.Errorf("create service type: %w", err)
	}

	return st, nil
}

// UpdateServiceType updates an existing service type.
func (r *Repo) UpdateServiceType(ctx context.Context, params UpdateServiceTypeParams) (ServiceType, error) {
	query := `
		UPDATE service_types SET
			name = COALESCE($2, name),
			slug = COALESCE($3, slug),
			description = COALESCE($4, description),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + serviceTypeColumns

	st, err := scanServiceType(r.pool.QueryRow(ctx, query, params.ID, params.Name, params.Slug, params.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceType{}, apperr.NotFound(serviceTypeNotFoundMessage)
		}
		return ServiceType{}, fmt.Errorf("update service type: %w", err)
	}

	return st, nil
}

// DeleteServiceType removes a service type by ID (hard delete).
// Use SetServiceTypeActive(false) for soft delete.
func (r *Repo) DeleteServiceType(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM service_types WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete service type: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(serviceTypeNotFoundMessage)
	}

	return nil
}

// SetServiceTypeActive sets the is_active flag for a service type.
func (r *Repo) SetServiceTypeActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	query := `UPDATE service_types SET is_active = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, isActive)
	if err != nil {
		return fmt.Errorf("set service type active: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(serviceTypeNotFoundMessage)
	}

	return nil
}

const serviceColumns = `id, specialist_id, service_type_id, name, description, price_cents, duration_minutes, is_active, created_at, updated_at`

// GetServiceByID retrieves a specialist offering by its ID.
func (r *Repo) GetServiceByID(ctx context.Context, id uuid.UUID) (Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	svc, err := scanService(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return Service{}, fmt.Errorf("get service by id: %w", err)
	}

	return svc, nil
}

// ListServicesBySpecialist retrieves all active offerings of one specialist.
func (r *Repo) ListServicesBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE specialist_id = $1 AND is_active = true
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, specialistID)
	if err != nil {
		return nil, fmt.Errorf("list services by specialist: %w", err)
	}
	defer rows.Close()

	return scanServices(rows)
}

// ListServicesByIDs retrieves offerings by their IDs. Missing IDs are simply
// absent from the result; the caller decides whether that is an error.
func (r *Repo) ListServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list services by ids: %w", err)
	}
	defer rows.Close()

	return scanServices(rows)
}

// CreateService creates a new specialist offering.
func (r *Repo) CreateService(ctx context.Context, params CreateServiceParams) (Service, error) {
	query := `
		INSERT INTO services (specialist_id, service_type_id, name, description, price_cents, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + serviceColumns

	svc, err := scanService(r.pool.QueryRow(ctx, query,
		params.SpecialistID, params.ServiceTypeID, params.Name, params.Description,
		params.PriceCents, params.DurationMinutes,
	))
	if err != nil {
		return Service{}, fmt.Errorf("create service: %w", err)
	}

	return svc, nil
}

// UpdateService updates an offering owned by the given specialist.
func (r *Repo) UpdateService(ctx context.Context, params UpdateServiceParams) (Service, error) {
	query := `
		UPDATE services SET
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			price_cents = COALESCE($5, price_cents),
			duration_minutes = COALESCE($6, duration_minutes),
			updated_at = now()
		WHERE id = $1 AND specialist_id = $2
		RETURNING ` + serviceColumns

	svc, err := scanService(r.pool.QueryRow(ctx, query,
		params.ID, params.SpecialistID, params.Name, params.Description,
		params.PriceCents, params.DurationMinutes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return Service{}, fmt.Errorf("update service: %w", err)
	}

	return svc, nil
}

// DeleteService soft-deletes an offering owned by the given specialist.
// Soft delete keeps historical orders pointing at a real row.
func (r *Repo) DeleteService(ctx context.Context, specialistID, id uuid.UUID) error {
	query := `UPDATE services SET is_active = false, updated_at = now() WHERE id = $1 AND specialist_id = $2`

	result, err := r.pool.Exec(ctx, query, id, specialistID)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(serviceNotFoundMessage)
	}

	return nil
}

func scanServiceType(row pgx.Row) (ServiceType, error) {
	var st ServiceType
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&st.ID, &st.Name, &st.Slug, &st.Description, &st.IsActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return ServiceType{}, err
	}

	st.CreatedAt = createdAt.Format(time.RFC3339)
	st.UpdatedAt = updatedAt.Format(time.RFC3339)

	return st, nil
}

func scanServiceTypes(rows pgx.Rows) ([]ServiceType, error) {
	items := make([]ServiceType, 0)
	for rows.Next() {
		st, err := scanServiceType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service type: %w", err)
		}
		items = append(items, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service types: %w", err)
	}
	return items, nil
}

func scanService(row pgx.Row) (Service, error) {
	var svc Service
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&svc.ID, &svc.SpecialistID, &svc.ServiceTypeID, &svc.Name, &svc.Description,
		&svc.PriceCents, &svc.DurationMinutes, &svc.IsActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return Service{}, err
	}

	svc.CreatedAt = createdAt.Format(time.RFC3339)
	svc.UpdatedAt = updatedAt.Format(time.RFC3339)

	return svc, nil
}

func scanServices(rows pgx.Rows) ([]Service, error) {
	items := make([]Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		items = append(items, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return items, nil
}
