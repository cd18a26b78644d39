package repository

import (
	"context"

	"github.com/google/uuid"

	"freshr_backend/internal/orders/domain"
)

// Tx is the transactional view a queue transition runs against. The ForUpdate
// reads take row locks; every write in the same transaction either all lands
// or none does.
type Tx interface {
	OrderForUpdate(ctx context.Context, id uuid.UUID) (domain.Order, error)
	SpecialistForUpdate(ctx context.Context, id uuid.UUID) (domain.Specialist, error)
	FacilityForUpdate(ctx context.Context, id uuid.UUID) (domain.Facility, error)

	InsertOrder(ctx context.Context, order domain.Order) error
	InsertOrderServices(ctx context.Context, orderID uuid.UUID, items []domain.OrderService) error

	// SaveOrder persists all mutable order fields (status, position, chain
	// links, codes, payment flags).
	SaveOrder(ctx context.Context, order domain.Order) error

	// SaveSpecialistQueue persists the specialist's queue columns
	// (queue_len, is_busy, front_order_id, back_order_id).
	SaveSpecialistQueue(ctx context.Context, specialist domain.Specialist) error

	// AdjustFacilitySeats adds delta to available_seats, clamped to
	// [0, total_seats].
	AdjustFacilitySeats(ctx context.Context, facilityID uuid.UUID, delta int) error

	// ShiftPositionsAfter decrements the position of every active order of
	// the specialist sitting behind the given position.
	ShiftPositionsAfter(ctx context.Context, specialistID uuid.UUID, position int) error
}

// Store provides order persistence. Transitions go through WithTx; the rest
// are plain reads.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
	GetOrderServices(ctx context.Context, orderID uuid.UUID) ([]domain.OrderService, error)
	ListActiveBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]domain.Order, error)
	ListHistoryByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]domain.Order, error)
	ListHistoryBySpecialist(ctx context.Context, specialistID uuid.UUID, limit int) ([]domain.Order, error)

	GetSpecialist(ctx context.Context, id uuid.UUID) (domain.Specialist, error)
	GetFacility(ctx context.Context, id uuid.UUID) (domain.Facility, error)
}
