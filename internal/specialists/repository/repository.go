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

const specialistNotFoundMessage = "specialist not found"

const specialistColumns = `id, facility_id, display_name, bio, push_token, notify_email,
	is_available, is_queueing, is_busy, queue_len, max_queue, front_order_id, back_order_id,
	created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new specialists repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a specialist by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Specialist, error) {
	query := `SELECT ` + specialistColumns + ` FROM specialists WHERE id = $1`

	specialist, err := scanSpecialist(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Specialist{}, apperr.NotFound(specialistNotFoundMessage)
		}
		return Specialist{}, fmt.Errorf("get specialist by id: %w", err)
	}

	return specialist, nil
}

// ListByFacility retrieves available specialists working at one facility.
func (r *Repo) ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]Specialist, error) {
	query := `
		SELECT ` + specialistColumns + `
		FROM specialists
		WHERE facility_id = $1 AND is_available = true
		ORDER BY display_name ASC`

	rows, err := r.pool.Query(ctx, query, facilityID)
	if err != nil {
		return nil, fmt.Errorf("list specialists by facility: %w", err)
	}
	defer rows.Close()

	items := make([]Specialist, 0)
	for rows.Next() {
		specialist, err := scanSpecialist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan specialist: %w", err)
		}
		items = append(items, specialist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate specialists: %w", err)
	}

	return items, nil
}

// Upsert creates a specialist profile or updates descriptive fields of an
// existing one. Queue state is never touched.
func (r *Repo) Upsert(ctx context.Context, params UpsertParams) (Specialist, error) {
	query := `
		INSERT INTO specialists (id, facility_id, display_name, bio, max_queue)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			facility_id = EXCLUDED.facility_id,
			display_name = EXCLUDED.display_name,
			bio = EXCLUDED.bio,
			updated_at = now()
		RETURNING ` + specialistColumns

	specialist, err := scanSpecialist(r.pool.QueryRow(ctx, query,
		params.ID, params.FacilityID, params.DisplayName, params.Bio, params.MaxQueue,
	))
	if err != nil {
		return Specialist{}, fmt.Errorf("upsert specialist: %w", err)
	}

	return specialist, nil
}

// UpdateContact stores the specialist's notification endpoints.
func (r *Repo) UpdateContact(ctx context.Context, params UpdateContactParams) error {
	query := `
		UPDATE specialists SET
			push_token = COALESCE($2, push_token),
			notify_email = COALESCE($3, notify_email),
			updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, params.ID, params.PushToken, params.NotifyEmail)
	if err != nil {
		return fmt.Errorf("update specialist contact: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(specialistNotFoundMessage)
	}

	return nil
}

// SetAvailability sets whether the specialist is shown at their facility.
func (r *Repo) SetAvailability(ctx context.Context, id uuid.UUID, isAvailable bool) error {
	query := `UPDATE specialists SET is_available = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, isAvailable)
	if err != nil {
		return fmt.Errorf("set specialist availability: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(specialistNotFoundMessage)
	}

	return nil
}

// SetQueueing sets whether the specialist admits orders beyond the first.
func (r *Repo) SetQueueing(ctx context.Context, id uuid.UUID, isQueueing bool) error {
	query := `UPDATE specialists SET is_queueing = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, isQueueing)
	if err != nil {
		return fmt.Errorf("set specialist queueing: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(specialistNotFoundMessage)
	}

	return nil
}

func scanSpecialist(row pgx.Row) (Specialist, error) {
	var specialist Specialist
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&specialist.ID, &specialist.FacilityID, &specialist.DisplayName, &specialist.Bio,
		&specialist.PushToken, &specialist.NotifyEmail, &specialist.IsAvailable,
		&specialist.IsQueueing, &specialist.IsBusy, &specialist.QueueLen, &specialist.MaxQueue,
		&specialist.FrontOrderID, &specialist.BackOrderID, &createdAt, &updatedAt,
	)
	if err != nil {
		return Specialist{}, err
	}

	specialist.CreatedAt = createdAt.Format(time.RFC3339)
	specialist.UpdatedAt = updatedAt.Format(time.RFC3339)

	return specialist, nil
}
