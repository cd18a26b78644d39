// Package ports declares the collaborator interfaces the orders module
// depends on. Concrete adapters live in internal/adapters and are wired in
// by the composition root, keeping module boundaries one-directional.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// Offering is the priced view of a catalog service the intake needs.
type Offering struct {
	ID           uuid.UUID
	SpecialistID uuid.UUID
	Name         string
	PriceCents   int64
}

// Catalog resolves the services a client is ordering. Implementations must
// fail if any requested offering is missing or retired.
type Catalog interface {
	GetOfferings(ctx context.Context, ids []uuid.UUID) ([]Offering, error)
}

// ChatSessions opens and closes the order-scoped chat window. A session
// exists exactly while its order is active; both calls are idempotent.
type ChatSessions interface {
	Open(ctx context.Context, orderID, clientID, specialistID uuid.UUID) error
	Close(ctx context.Context, orderID uuid.UUID) error
}
