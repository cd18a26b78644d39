// Package adapters connects the orders module's ports to the concrete
// catalog and chat services. Keeping the glue here prevents import cycles
// between bounded contexts; only the composition root sees both sides.
package adapters

import (
	"context"

	"github.com/google/uuid"

	catalogsvc "freshr_backend/internal/catalog/service"
	chatsvc "freshr_backend/internal/chat/service"
	"freshr_backend/internal/orders/ports"
)

// CatalogAdapter exposes the catalog service as an orders port.
type CatalogAdapter struct {
	svc *catalogsvc.Service
}

// NewCatalogAdapter wraps the catalog service.
func NewCatalogAdapter(svc *catalogsvc.Service) *CatalogAdapter {
	return &CatalogAdapter{svc: svc}
}

// GetOfferings resolves the requested catalog services into priced offerings.
func (a *CatalogAdapter) GetOfferings(ctx context.Context, ids []uuid.UUID) ([]ports.Offering, error) {
	items, err := a.svc.GetOfferings(ctx, ids)
	if err != nil {
		return nil, err
	}

	offerings := make([]ports.Offering, 0, len(items))
	for _, item := range items {
		offerings = append(offerings, ports.Offering{
			ID:           item.ID,
			SpecialistID: item.SpecialistID,
			Name:         item.Name,
			PriceCents:   item.PriceCents,
		})
	}
	return offerings, nil
}

// ChatSessionsAdapter exposes the chat service as an orders port.
type ChatSessionsAdapter struct {
	svc *chatsvc.Service
}

// NewChatSessionsAdapter wraps the chat service.
func NewChatSessionsAdapter(svc *chatsvc.Service) *ChatSessionsAdapter {
	return &ChatSessionsAdapter{svc: svc}
}

// Open creates the chat session for an order.
func (a *ChatSessionsAdapter) Open(ctx context.Context, orderID, clientID, specialistID uuid.UUID) error {
	return a.svc.Open(ctx, orderID, clientID, specialistID)
}

// Close destroys the chat session for an order.
func (a *ChatSessionsAdapter) Close(ctx context.Context, orderID uuid.UUID) error {
	return a.svc.Close(ctx, orderID)
}

// Compile-time checks that the adapters satisfy the orders ports.
var (
	_ ports.Catalog      = (*CatalogAdapter)(nil)
	_ ports.ChatSessions = (*ChatSessionsAdapter)(nil)
)
