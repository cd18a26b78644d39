package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"freshr_backend/internal/orders/domain"
	"freshr_backend/platform/apperr"
)

const (
	orderNotFoundMessage      = "order not found"
	specialistNotFoundMessage = "specialist not found"
	facilityNotFoundMessage   = "facility not found"
)

const orderColumns = `id, client_id, specialist_id, facility_id, status, position,
	before_order_id, after_order_id, start_code, end_code, price_cents, is_paid, paid_at,
	client_push_token, client_email, created_at, updated_at`

// Repo implements Store with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new orders repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Store.
var _ Store = (*Repo)(nil)

// WithTx runs fn inside a single transaction. Rolls back on error or panic.
func (r *Repo) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	pgxTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = pgxTx.Rollback(ctx)
	}()

	if err := fn(&txRunner{tx: pgxTx}); err != nil {
		return translateConcurrency(err)
	}

	if err := pgxTx.Commit(ctx); err != nil {
		return translateConcurrency(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// translateConcurrency maps serialization and deadlock failures to the
// retryable domain error. Everything else passes through untouched.
func translateConcurrency(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return domain.ErrConcurrentModification()
	}
	return err
}

// GetOrder retrieves an order by ID.
func (r *Repo) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrderRow(r.pool.QueryRow(ctx, query, id))
}

// GetOrderServices retrieves the line items of an order.
func (r *Repo) GetOrderServices(ctx context.Context, orderID uuid.UUID) ([]domain.OrderService, error) {
	query := `
		SELECT service_id, name, price_cents
		FROM order_services
		WHERE order_id = $1
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order services: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderService, 0)
	for rows.Next() {
		var item domain.OrderService
		if err := rows.Scan(&item.ServiceID, &item.Name, &item.PriceCents); err != nil {
			return nil, fmt.Errorf("scan order service: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order services: %w", err)
	}
	return items, nil
}

// ListActiveBySpecialist retrieves all queue-occupying orders of a specialist.
// Chain order is the caller's concern; rows come back position-sorted as a
// stable default.
func (r *Repo) ListActiveBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE specialist_id = $1 AND status IN ('PENDING', 'IN_TRAFFIC', 'ONGOING') AND is_paid = true
		ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query, specialistID)
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListHistoryByClient retrieves a client's finished orders, newest first.
func (r *Repo) ListHistoryByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE client_id = $1 AND status IN ('COMPLETED', 'CANCELLED')
		ORDER BY updated_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list client history: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListHistoryBySpecialist retrieves a specialist's finished orders, newest first.
func (r *Repo) ListHistoryBySpecialist(ctx context.Context, specialistID uuid.UUID, limit int) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE specialist_id = $1 AND status IN ('COMPLETED', 'CANCELLED')
		ORDER BY updated_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, specialistID, limit)
	if err != nil {
		return nil, fmt.Errorf("list specialist history: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// GetSpecialist retrieves the queue view of a specialist without locking.
func (r *Repo) GetSpecialist(ctx context.Context, id uuid.UUID) (domain.Specialist, error) {
	return querySpecialist(ctx, r.pool, id, false)
}

// GetFacility retrieves the capacity view of a facility without locking.
func (r *Repo) GetFacility(ctx context.Context, id uuid.UUID) (domain.Facility, error) {
	return queryFacility(ctx, r.pool, id, false)
}

// txRunner implements Tx over a pgx transaction.
type txRunner struct {
	tx pgx.Tx
}

var _ Tx = (*txRunner)(nil)

func (t *txRunner) OrderForUpdate(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return scanOrderRow(t.tx.QueryRow(ctx, query, id))
}

func (t *txRunner) SpecialistForUpdate(ctx context.Context, id uuid.UUID) (domain.Specialist, error) {
	return querySpecialist(ctx, t.tx, id, true)
}

func (t *txRunner) FacilityForUpdate(ctx context.Context, id uuid.UUID) (domain.Facility, error) {
	return queryFacility(ctx, t.tx, id, true)
}

func (t *txRunner) InsertOrder(ctx context.Context, order domain.Order) error {
	query := `
		INSERT INTO orders (id, client_id, specialist_id, facility_id, status, position,
			before_order_id, after_order_id, start_code, end_code, price_cents, is_paid, paid_at,
			client_push_token, client_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := t.tx.Exec(ctx, query,
		order.ID, order.ClientID, order.SpecialistID, order.FacilityID, order.Status,
		order.Position, order.BeforeOrderID, order.AfterOrderID, order.StartCode, order.EndCode,
		order.PriceCents, order.IsPaid, order.PaidAt, order.ClientPushToken, order.ClientEmail,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (t *txRunner) InsertOrderServices(ctx context.Context, orderID uuid.UUID, items []domain.OrderService) error {
	for _, item := range items {
		query := `INSERT INTO order_services (order_id, service_id, name, price_cents) VALUES ($1, $2, $3, $4)`
		if _, err := t.tx.Exec(ctx, query, orderID, item.ServiceID, item.Name, item.PriceCents); err != nil {
			return fmt.Errorf("insert order service: %w", err)
		}
	}
	return nil
}

func (t *txRunner) SaveOrder(ctx context.Context, order domain.Order) error {
	query := `
		UPDATE orders SET
			status = $2,
			position = $3,
			before_order_id = $4,
			after_order_id = $5,
			start_code = $6,
			end_code = $7,
			is_paid = $8,
			paid_at = $9,
			updated_at = now()
		WHERE id = $1`

	result, err := t.tx.Exec(ctx, query,
		order.ID, order.Status, order.Position, order.BeforeOrderID, order.AfterOrderID,
		order.StartCode, order.EndCode, order.IsPaid, order.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(orderNotFoundMessage)
	}
	return nil
}

func (t *txRunner) SaveSpecialistQueue(ctx context.Context, specialist domain.Specialist) error {
	query := `
		UPDATE specialists SET
			queue_len = $2,
			is_busy = $3,
			front_order_id = $4,
			back_order_id = $5,
			updated_at = now()
		WHERE id = $1`

	result, err := t.tx.Exec(ctx, query,
		specialist.ID, specialist.QueueLen, specialist.IsBusy,
		specialist.FrontOrderID, specialist.BackOrderID,
	)
	if err != nil {
		return fmt.Errorf("save specialist queue: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(specialistNotFoundMessage)
	}
	return nil
}

func (t *txRunner) AdjustFacilitySeats(ctx context.Context, facilityID uuid.UUID, delta int) error {
	query := `
		UPDATE facilities SET
			available_seats = GREATEST(0, LEAST(total_seats, available_seats + $2)),
			updated_at = now()
		WHERE id = $1`

	result, err := t.tx.Exec(ctx, query, facilityID, delta)
	if err != nil {
		return fmt.Errorf("adjust facility seats: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(facilityNotFoundMessage)
	}
	return nil
}

func (t *txRunner) ShiftPositionsAfter(ctx context.Context, specialistID uuid.UUID, position int) error {
	query := `
		UPDATE orders SET
			position = position - 1,
			updated_at = now()
		WHERE specialist_id = $1
			AND status IN ('PENDING', 'IN_TRAFFIC', 'ONGOING')
			AND position > $2`

	if _, err := t.tx.Exec(ctx, query, specialistID, position); err != nil {
		return fmt.Errorf("shift queue positions: %w", err)
	}
	return nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func querySpecialist(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (domain.Specialist, error) {
	query := `
		SELECT id, facility_id, display_name, push_token, notify_email,
			is_queueing, is_busy, queue_len, max_queue, front_order_id, back_order_id
		FROM specialists
		WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var s domain.Specialist
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.FacilityID, &s.DisplayName, &s.PushToken, &s.NotifyEmail,
		&s.IsQueueing, &s.IsBusy, &s.QueueLen, &s.MaxQueue, &s.FrontOrderID, &s.BackOrderID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Specialist{}, apperr.NotFound(specialistNotFoundMessage)
		}
		return domain.Specialist{}, fmt.Errorf("get specialist: %w", err)
	}
	return s, nil
}

func queryFacility(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (domain.Facility, error) {
	query := `SELECT id, address, total_seats, available_seats FROM facilities WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var f domain.Facility
	err := q.QueryRow(ctx, query, id).Scan(&f.ID, &f.Address, &f.TotalSeats, &f.AvailableSeats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Facility{}, apperr.NotFound(facilityNotFoundMessage)
		}
		return domain.Facility{}, fmt.Errorf("get facility: %w", err)
	}
	return f, nil
}

func scanOrderRow(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.ClientID, &o.SpecialistID, &o.FacilityID, &o.Status, &o.Position,
		&o.BeforeOrderID, &o.AfterOrderID, &o.StartCode, &o.EndCode, &o.PriceCents,
		&o.IsPaid, &o.PaidAt, &o.ClientPushToken, &o.ClientEmail, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, apperr.NotFound(orderNotFoundMessage)
		}
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	return o, nil
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	items := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return items, nil
}
