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

const facilityNotFoundMessage = "facility not found"

const facilityColumns = `id, name, address, city, latitude, longitude, total_seats, available_seats, is_active, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new facilities repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a facility by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE id = $1`

	facility, err := scanFacility(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Facility{}, apperr.NotFound(facilityNotFoundMessage)
		}
		return Facility{}, fmt.Errorf("get facility by id: %w", err)
	}

	return facility, nil
}

// List retrieves all active facilities ordered by name.
func (r *Repo) List(ctx context.Context) ([]Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE is_active = true ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	defer rows.Close()

	return scanFacilities(rows)
}

// ListByCity retrieves active facilities in one city.
func (r *Repo) ListByCity(ctx context.Context, city string) ([]Facility, error) {
	query := `
		SELECT ` + facilityColumns + `
		FROM facilities
		WHERE is_active = true AND lower(city) = lower($1)
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("list facilities by city: %w", err)
	}
	defer rows.Close()

	return scanFacilities(rows)
}

// Create creates a new facility with all seats available.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Facility, error) {
	query := `
		INSERT INTO facilities (name, address, city, latitude, longitude, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + facilityColumns

	facility, err := scanFacility(r.pool.QueryRow(ctx, query,
		params.Name, params.Address, params.City, params.Latitude, params.Longitude, params.TotalSeats,
	))
	if err != nil {
		return Facility{}, fmt.Errorf("create facility: %w", err)
	}

	return facility, nil
}

// Update updates an existing facility's descriptive fields.
// Seat counts are owned by the orders module and never updated here.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Facility, error) {
	query := `
		UPDATE facilities SET
			name = COALESCE($2, name),
			address = COALESCE($3, address),
			city = COALESCE($4, city),
			latitude = COALESCE($5, latitude),
			longitude = COALESCE($6, longitude),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + facilityColumns

	facility, err := scanFacility(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Address, params.City, params.Latitude, params.Longitude,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Facility{}, apperr.NotFound(facilityNotFoundMessage)
		}
		return Facility{}, fmt.Errorf("update facility: %w", err)
	}

	return facility, nil
}

// SetActive sets the is_active flag for a facility.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	query := `UPDATE facilities SET is_active = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, isActive)
	if err != nil {
		return fmt.Errorf("set facility active: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(facilityNotFoundMessage)
	}

	return nil
}

func scanFacility(row pgx.Row) (Facility, error) {
	var facility Facility
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&facility.ID, &facility.Name, &facility.Address, &facility.City,
		&facility.Latitude, &facility.Longitude, &facility.TotalSeats,
		&facility.AvailableSeats, &facility.IsActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return Facility{}, err
	}

	facility.CreatedAt = createdAt.Format(time.RFC3339)
	facility.UpdatedAt = updatedAt.Format(time.RFC3339)

	return facility, nil
}

func scanFacilities(rows pgx.Rows) ([]Facility, error) {
	items := make([]Facility, 0)
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, fmt.Errorf("scan facility: %w", err)
		}
		items = append(items, facility)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate facilities: %w", err)
	}
	return items, nil
}
