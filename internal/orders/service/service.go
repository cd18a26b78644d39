// Package service implements order intake, reads, and the queue transition
// logic for the orders module.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"freshr_backend/internal/events"
	"freshr_backend/internal/orders/capacity"
	"freshr_backend/internal/orders/domain"
	"freshr_backend/internal/orders/ports"
	"freshr_backend/internal/orders/queue"
	"freshr_backend/internal/orders/repository"
	"freshr_backend/internal/orders/transport"
	"freshr_backend/platform/apperr"
	"freshr_backend/platform/logger"
)

const historyLimit = 50

// Service provides order intake, lookups, and queue transitions.
type Service struct {
	store   repository.Store
	catalog ports.Catalog
	chats   ports.ChatSessions
	locks   *queue.Locks
	bus     events.Bus
	log     *logger.Logger
}

// New creates a new orders service.
func New(store repository.Store, catalog ports.Catalog, chats ports.ChatSessions, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		chats:   chats,
		locks:   queue.NewLocks(),
		bus:     bus,
		log:     log,
	}
}

// Checkout creates an unpaid order for the given client. The order does not
// enter the specialist's queue until payment is confirmed; the admission check
// here is a pre-check against current state, the authoritative one runs at
// payment time under the specialist lock.
func (s *Service) Checkout(ctx context.Context, clientID uuid.UUID, req transport.CheckoutRequest) (transport.OrderResponse, error) {
	var specialist domain.Specialist
	var offerings []ports.Offering

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		specialist, err = s.store.GetSpecialist(gctx, req.SpecialistID)
		return err
	})
	g.Go(func() error {
		var err error
		offerings, err = s.catalog.GetOfferings(gctx, req.ServiceIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.OrderResponse{}, err
	}
	if !capacity.CanAdmit(specialist) {
		return transport.OrderResponse{}, domain.ErrCapacityExceeded()
	}

	var total int64
	items := make([]domain.OrderService, 0, len(offerings))
	for _, offering := range offerings {
		if offering.SpecialistID != req.SpecialistID {
			return transport.OrderResponse{}, apperr.BadRequest("service is not offered by this specialist")
		}
		total += offering.PriceCents
		items = append(items, domain.OrderService{
			ServiceID:  offering.ID,
			Name:       offering.Name,
			PriceCents: offering.PriceCents,
		})
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:              uuid.New(),
		ClientID:        clientID,
		SpecialistID:    specialist.ID,
		FacilityID:      specialist.FacilityID,
		Status:          domain.StatusPending,
		PriceCents:      total,
		ClientPushToken: req.PushToken,
		ClientEmail:     req.Email,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		return tx.InsertOrderServices(ctx, order.ID, items)
	})
	if err != nil {
		return transport.OrderResponse{}, err
	}

	s.log.Info("order created", "order_id", order.ID, "client_id", clientID, "specialist_id", specialist.ID, "price_cents", total)

	response := toOrderResponse(order)
	response.Services = toServiceResponses(items)
	return response, nil
}

// GetOrder retrieves an order visible to the caller (its client or its
// specialist). Verification codes are only disclosed to the client.
func (s *Service) GetOrder(ctx context.Context, callerID, orderID uuid.UUID) (transport.OrderResponse, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	if order.ClientID != callerID && order.SpecialistID != callerID {
		return transport.OrderResponse{}, apperr.Forbidden("order belongs to another user")
	}

	items, err := s.store.GetOrderServices(ctx, orderID)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	response := toOrderResponse(order)
	response.Services = toServiceResponses(items)
	if order.ClientID != callerID {
		response.StartCode = nil
		response.EndCode = nil
	}
	return response, nil
}

// GetStartCode returns the start verification code of the client's order.
func (s *Service) GetStartCode(ctx context.Context, clientID, orderID uuid.UUID) (string, error) {
	return s.getCode(ctx, clientID, orderID, func(o domain.Order) *string { return o.StartCode })
}

// GetEndCode returns the end verification code of the client's order.
func (s *Service) GetEndCode(ctx context.Context, clientID, orderID uuid.UUID) (string, error) {
	return s.getCode(ctx, clientID, orderID, func(o domain.Order) *string { return o.EndCode })
}

func (s *Service) getCode(ctx context.Context, clientID, orderID uuid.UUID, pick func(domain.Order) *string) (string, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.ClientID != clientID {
		return "", apperr.Forbidden("order belongs to another user")
	}

	code := pick(order)
	if code == nil {
		return "", apperr.NotFound("code not issued yet")
	}
	return *code, nil
}

// GetQueue returns the front-to-back snapshot of a specialist's queue by
// walking the order chain from the front pointer.
func (s *Service) GetQueue(ctx context.Context, specialistID uuid.UUID) (transport.QueueResponse, error) {
	specialist, err := s.store.GetSpecialist(ctx, specialistID)
	if err != nil {
		return transport.QueueResponse{}, err
	}

	active, err := s.store.ListActiveBySpecialist(ctx, specialistID)
	if err != nil {
		return transport.QueueResponse{}, err
	}

	byID := make(map[uuid.UUID]domain.Order, len(active))
	for _, order := range active {
		byID[order.ID] = order
	}

	entries := make([]transport.QueueEntryResponse, 0, len(active))
	next := specialist.FrontOrderID
	for next != nil {
		order, ok := byID[*next]
		if !ok {
			break
		}
		entries = append(entries, transport.QueueEntryResponse{
			OrderID:    order.ID,
			ClientID:   order.ClientID,
			Status:     string(order.Status),
			Position:   order.Position,
			PriceCents: order.PriceCents,
			CreatedAt:  order.CreatedAt.Format(time.RFC3339),
		})
		next = order.AfterOrderID
	}

	return transport.QueueResponse{
		SpecialistID: specialist.ID,
		QueueLen:     specialist.QueueLen,
		MaxQueue:     specialist.MaxQueue,
		IsBusy:       specialist.IsBusy,
		Entries:      entries,
	}, nil
}

// ListClientHistory returns the client's finished orders, newest first.
func (s *Service) ListClientHistory(ctx context.Context, clientID uuid.UUID) (transport.OrderListResponse, error) {
	items, err := s.store.ListHistoryByClient(ctx, clientID, historyLimit)
	if err != nil {
		return transport.OrderListResponse{}, err
	}
	return toOrderListResponse(items), nil
}

// ListSpecialistHistory returns the specialist's finished orders, newest first.
func (s *Service) ListSpecialistHistory(ctx context.Context, specialistID uuid.UUID) (transport.OrderListResponse, error) {
	items, err := s.store.ListHistoryBySpecialist(ctx, specialistID, historyLimit)
	if err != nil {
		return transport.OrderListResponse{}, err
	}
	return toOrderListResponse(items), nil
}

func toOrderResponse(order domain.Order) transport.OrderResponse {
	return transport.OrderResponse{
		ID:           order.ID,
		ClientID:     order.ClientID,
		SpecialistID: order.SpecialistID,
		FacilityID:   order.FacilityID,
		Status:       string(order.Status),
		Position:     order.Position,
		PriceCents:   order.PriceCents,
		IsPaid:       order.IsPaid,
		StartCode:    order.StartCode,
		EndCode:      order.EndCode,
		CreatedAt:    order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    order.UpdatedAt.Format(time.RFC3339),
	}
}

func toServiceResponses(items []domain.OrderService) []transport.OrderServiceResponse {
	responses := make([]transport.OrderServiceResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, transport.OrderServiceResponse{
			ServiceID:  item.ServiceID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
		})
	}
	return responses
}

func toOrderListResponse(items []domain.Order) transport.OrderListResponse {
	responses := make([]transport.OrderResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toOrderResponse(item))
	}
	return transport.OrderListResponse{Items: responses, Total: len(responses)}
}
