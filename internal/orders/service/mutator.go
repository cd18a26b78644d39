package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"freshr_backend/internal/events"
	"freshr_backend/internal/orders/capacity"
	"freshr_backend/internal/orders/domain"
	"freshr_backend/internal/orders/repository"
	"freshr_backend/internal/orders/transport"
	"freshr_backend/platform/apperr"
)

// Every transition follows the same shape: acquire the specialist's local
// lock, run one transaction that re-reads all rows with row locks, apply the
// guards, write every affected row, commit. Events and chat side effects
// happen only after the commit, so a failed transition mutates nothing.

// withQueueTx serializes the transition per specialist and retries once on a
// concurrency failure. The closure re-reads all state, so a retry is safe.
// On success it returns the resulting queue snapshot, read before the lock is
// released so callers get read-after-write consistency.
func (s *Service) withQueueTx(ctx context.Context, specialistID uuid.UUID, fn func(tx repository.Tx) error) (transport.QueueResponse, error) {
	unlock := s.locks.Lock(specialistID)
	defer unlock()

	err := s.store.WithTx(ctx, fn)
	if apperr.GetCode(err) == domain.CodeConcurrentModification {
		err = s.store.WithTx(ctx, fn)
	}
	if err != nil {
		return transport.QueueResponse{}, err
	}
	return s.GetQueue(ctx, specialistID)
}

// ConfirmPayment marks the client's order paid and links it to the back of
// the specialist's queue. The admission check here, against the queue state
// at payment time under the specialist lock, is the authoritative one.
func (s *Service) ConfirmPayment(ctx context.Context, clientID, orderID uuid.UUID) (transport.TransitionResponse, error) {
	lookup, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return transport.TransitionResponse{}, err
	}
	if lookup.ClientID != clientID {
		return transport.TransitionResponse{}, apperr.Forbidden("order belongs to another user")
	}

	var order domain.Order
	var specialist domain.Specialist

	queue, err := s.withQueueTx(ctx, lookup.SpecialistID, func(tx repository.Tx) error {
		o, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.IsPaid {
			return domain.ErrAlreadyPaid()
		}
		if o.Status != domain.StatusPending {
			return domain.ErrInvalidStatus(o.Status)
		}

		sp, err := tx.SpecialistForUpdate(ctx, o.SpecialistID)
		if err != nil {
			return err
		}
		if !capacity.CanAdmit(sp) {
			return domain.ErrCapacityExceeded()
		}

		if sp.FrontOrderID == nil {
			o.Position = 0
			o.BeforeOrderID = nil
			sp.FrontOrderID = &o.ID
			sp.BackOrderID = &o.ID
		} else {
			tail, err := tx.OrderForUpdate(ctx, *sp.BackOrderID)
			if err != nil {
				return err
			}
			tailID := tail.ID
			tail.AfterOrderID = &o.ID
			if err := tx.SaveOrder(ctx, tail); err != nil {
				return err
			}
			o.BeforeOrderID = &tailID
			o.Position = tail.Position + 1
			sp.BackOrderID = &o.ID
		}

		now := time.Now().UTC()
		o.IsPaid = true
		o.PaidAt = &now
		sp.QueueLen++

		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}
		if err := tx.SaveSpecialistQueue(ctx, sp); err != nil {
			return err
		}

		order = o
		specialist = sp
		return nil
	})
	if err != nil {
		return transport.TransitionResponse{}, err
	}

	if err := s.chats.Open(ctx, order.ID, order.ClientID, order.SpecialistID); err != nil {
		s.log.Error("open chat session failed", "order_id", order.ID, "error", err)
	}

	s.log.OrderTransition("queued", order.ID.String(), specialist.ID.String(), order.Position)
	s.bus.Publish(ctx, events.OrderQueued{
		BaseEvent:       events.NewBaseEvent(),
		OrderID:         order.ID,
		SpecialistID:    specialist.ID,
		FacilityAddress: s.facilityAddress(ctx, order.FacilityID),
		Position:        order.Position,
		Client:          clientContact(order),
		Specialist:      specialistContact(specialist),
	})

	return transport.TransitionResponse{Order: toOrderResponse(order), Queue: queue}, nil
}

// Accept moves the front order from PENDING to IN_TRAFFIC, marks the
// specialist busy, issues the start code, and takes a facility seat.
func (s *Service) Accept(ctx context.Context, specialistID, orderID uuid.UUID) (transport.TransitionResponse, error) {
	var order domain.Order
	var specialist domain.Specialist
	var facilityAddress string

	queue, err := s.withQueueTx(ctx, specialistID, func(tx repository.Tx) error {
		o, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.SpecialistID != specialistID {
			return domain.ErrWrongSpecialist()
		}

		sp, err := tx.SpecialistForUpdate(ctx, specialistID)
		if err != nil {
			return err
		}
		if !o.IsPaid || o.Status != domain.StatusPending {
			return domain.ErrInvalidStatus(o.Status)
		}
		if sp.FrontOrderID == nil || *sp.FrontOrderID != o.ID {
			return domain.ErrNotFrontOfQueue(o.Position)
		}

		f, err := tx.FacilityForUpdate(ctx, o.FacilityID)
		if err != nil {
			return err
		}
		if !capacity.CanOccupySeat(f) {
			return domain.ErrSeatUnavailable()
		}

		code, err := domain.GenerateCode()
		if err != nil {
			return err
		}

		o.Status = domain.StatusInTraffic
		o.StartCode = &code
		sp.IsBusy = true

		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}
		if err := tx.SaveSpecialistQueue(ctx, sp); err != nil {
			return err
		}
		if err := tx.AdjustFacilitySeats(ctx, f.ID, -1); err != nil {
			return err
		}

		order = o
		specialist = sp
		facilityAddress = f.Address
		return nil
	})
	if err != nil {
		return transport.TransitionResponse{}, err
	}

	s.log.OrderTransition("accepted", order.ID.String(), specialist.ID.String(), order.Position)
	s.bus.Publish(ctx, events.OrderAccepted{
		BaseEvent:       events.NewBaseEvent(),
		OrderID:         order.ID,
		SpecialistID:    specialist.ID,
		FacilityAddress: facilityAddress,
		Client:          clientContact(order),
	})

	return transport.TransitionResponse{Order: toOrderResponse(order), Queue: queue}, nil
}

// Start moves the front order from IN_TRAFFIC to ONGOING once the specialist
// proves the client's start code, and issues the end code.
func (s *Service) Start(ctx context.Context, specialistID, orderID uuid.UUID, code string) (transport.TransitionResponse, error) {
	var order domain.Order
	var specialist domain.Specialist

	queue, err := s.withQueueTx(ctx, specialistID, func(tx repository.Tx) error {
		o, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.SpecialistID != specialistID {
			return domain.ErrWrongSpecialist()
		}

		sp, err := tx.SpecialistForUpdate(ctx, specialistID)
		if err != nil {
			return err
		}
		if o.Status != domain.StatusInTraffic {
			return domain.ErrInvalidStatus(o.Status)
		}
		if sp.FrontOrderID == nil || *sp.FrontOrderID != o.ID {
			return domain.ErrNotFrontOfQueue(o.Position)
		}
		if o.StartCode == nil || *o.StartCode != code {
			return domain.ErrInvalidCode()
		}

		endCode, err := domain.GenerateCode()
		if err != nil {
			return err
		}

		o.Status = domain.StatusOngoing
		o.EndCode = &endCode

		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}

		order = o
		specialist = sp
		return nil
	})
	if err != nil {
		return transport.TransitionResponse{}, err
	}

	s.log.OrderTransition("started", order.ID.String(), specialist.ID.String(), order.Position)
	s.bus.Publish(ctx, events.OrderStarted{
		BaseEvent:    events.NewBaseEvent(),
		OrderID:      order.ID,
		SpecialistID: specialist.ID,
		Client:       clientContact(order),
	})

	return transport.TransitionResponse{Order: toOrderResponse(order), Queue: queue}, nil
}

// Complete finishes the front order once the specialist proves the end code.
// The queue advances, every order behind moves up one position, the seat is
// released, and the chat session is destroyed.
func (s *Service) Complete(ctx context.Context, specialistID, orderID uuid.UUID, code string) (transport.TransitionResponse, error) {
	var order domain.Order
	var specialist domain.Specialist

	queue, err := s.withQueueTx(ctx, specialistID, func(tx repository.Tx) error {
		o, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.SpecialistID != specialistID {
			return domain.ErrWrongSpecialist()
		}

		sp, err := tx.SpecialistForUpdate(ctx, specialistID)
		if err != nil {
			return err
		}
		if o.Status != domain.StatusOngoing {
			return domain.ErrInvalidStatus(o.Status)
		}
		if sp.FrontOrderID == nil || *sp.FrontOrderID != o.ID {
			return domain.ErrNotFrontOfQueue(o.Position)
		}
		if o.EndCode == nil || *o.EndCode != code {
			return domain.ErrInvalidCode()
		}

		next := o.AfterOrderID
		o.Status = domain.StatusCompleted
		o.BeforeOrderID = nil
		o.AfterOrderID = nil
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}

		// Everyone behind the departed front moves up one position.
		if err := tx.ShiftPositionsAfter(ctx, specialistID, 0); err != nil {
			return err
		}
		if next != nil {
			n, err := tx.OrderForUpdate(ctx, *next)
			if err != nil {
				return err
			}
			n.BeforeOrderID = nil
			if err := tx.SaveOrder(ctx, n); err != nil {
				return err
			}
		}

		sp.QueueLen--
		sp.IsBusy = false
		sp.FrontOrderID = next
		if next == nil {
			sp.BackOrderID = nil
		}
		if err := tx.SaveSpecialistQueue(ctx, sp); err != nil {
			return err
		}
		if err := tx.AdjustFacilitySeats(ctx, o.FacilityID, 1); err != nil {
			return err
		}

		order = o
		specialist = sp
		return nil
	})
	if err != nil {
		return transport.TransitionResponse{}, err
	}

	if err := s.chats.Close(ctx, order.ID); err != nil {
		s.log.Error("close chat session failed", "order_id", order.ID, "error", err)
	}

	s.log.OrderTransition("completed", order.ID.String(), specialist.ID.String(), 0)
	s.bus.Publish(ctx, events.OrderCompleted{
		BaseEvent:    events.NewBaseEvent(),
		OrderID:      order.ID,
		SpecialistID: specialist.ID,
		PriceCents:   order.PriceCents,
		Client:       clientContact(order),
		Specialist:   specialistContact(specialist),
	})

	return transport.TransitionResponse{Order: toOrderResponse(order), Queue: queue}, nil
}

// Reject lets the specialist drop the order at the front of their queue.
func (s *Service) Reject(ctx context.Context, specialistID, orderID uuid.UUID) (transport.TransitionResponse, error) {
	return s.cancel(ctx, specialistID, orderID, true)
}

// Cancel lets the client withdraw their order before servicing starts.
func (s *Service) Cancel(ctx context.Context, clientID, orderID uuid.UUID) (transport.TransitionResponse, error) {
	return s.cancel(ctx, clientID, orderID, false)
}

// cancel removes the front order from the queue, advancing it exactly like
// Complete does. Allowed from PENDING or IN_TRAFFIC; the seat is only restored
// when the order had one (IN_TRAFFIC). Unpaid orders never entered the queue
// and may be abandoned by the client regardless of position.
func (s *Service) cancel(ctx context.Context, callerID, orderID uuid.UUID, bySpecialist bool) (transport.TransitionResponse, error) {
	lookup, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return transport.TransitionResponse{}, err
	}
	if bySpecialist && lookup.SpecialistID != callerID {
		return transport.TransitionResponse{}, domain.ErrWrongSpecialist()
	}
	if !bySpecialist && lookup.ClientID != callerID {
		return transport.TransitionResponse{}, apperr.Forbidden("order belongs to another user")
	}

	var order domain.Order
	var specialist domain.Specialist
	var fromStatus domain.Status
	var wasQueued bool

	queue, err := s.withQueueTx(ctx, lookup.SpecialistID, func(tx repository.Tx) error {
		o, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		fromStatus = o.Status
		wasQueued = o.IsPaid

		if !o.IsPaid {
			// Unpaid orders never entered the queue; the client may simply
			// abandon checkout.
			if bySpecialist {
				return domain.ErrInvalidStatus(o.Status)
			}
			if o.Status != domain.StatusPending {
				return domain.ErrInvalidStatus(o.Status)
			}
			o.Status = domain.StatusCancelled
			if err := tx.SaveOrder(ctx, o); err != nil {
				return err
			}
			order = o
			return nil
		}

		if o.Status != domain.StatusPending && o.Status != domain.StatusInTraffic {
			return domain.ErrInvalidStatus(o.Status)
		}

		sp, err := tx.SpecialistForUpdate(ctx, o.SpecialistID)
		if err != nil {
			return err
		}
		if sp.FrontOrderID == nil || *sp.FrontOrderID != o.ID {
			return domain.ErrNotFrontOfQueue(o.Position)
		}

		next := o.AfterOrderID
		o.Status = domain.StatusCancelled
		o.BeforeOrderID = nil
		o.AfterOrderID = nil
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}

		if err := tx.ShiftPositionsAfter(ctx, sp.ID, 0); err != nil {
			return err
		}
		if next != nil {
			n, err := tx.OrderForUpdate(ctx, *next)
			if err != nil {
				return err
			}
			n.BeforeOrderID = nil
			if err := tx.SaveOrder(ctx, n); err != nil {
				return err
			}
		}

		sp.QueueLen--
		sp.FrontOrderID = next
		if next == nil {
			sp.BackOrderID = nil
		}
		if fromStatus == domain.StatusInTraffic {
			sp.IsBusy = false
			if err := tx.AdjustFacilitySeats(ctx, o.FacilityID, 1); err != nil {
				return err
			}
		}
		if err := tx.SaveSpecialistQueue(ctx, sp); err != nil {
			return err
		}

		order = o
		specialist = sp
		return nil
	})
	if err != nil {
		return transport.TransitionResponse{}, err
	}

	if wasQueued {
		if err := s.chats.Close(ctx, order.ID); err != nil {
			s.log.Error("close chat session failed", "order_id", order.ID, "error", err)
		}

		s.log.OrderTransition("cancelled", order.ID.String(), order.SpecialistID.String(), 0)
		s.bus.Publish(ctx, events.OrderCancelled{
			BaseEvent:    events.NewBaseEvent(),
			OrderID:      order.ID,
			SpecialistID: order.SpecialistID,
			FromStatus:   string(fromStatus),
			Client:       clientContact(order),
			Specialist:   specialistContact(specialist),
		})
	}

	return transport.TransitionResponse{Order: toOrderResponse(order), Queue: queue}, nil
}

func (s *Service) facilityAddress(ctx context.Context, facilityID uuid.UUID) string {
	facility, err := s.store.GetFacility(ctx, facilityID)
	if err != nil {
		s.log.Error("load facility for event failed", "facility_id", facilityID, "error", err)
		return ""
	}
	return facility.Address
}

func clientContact(order domain.Order) events.Contact {
	contact := events.Contact{UserID: order.ClientID}
	if order.ClientPushToken != nil {
		contact.PushToken = *order.ClientPushToken
	}
	if order.ClientEmail != nil {
		contact.Email = *order.ClientEmail
	}
	return contact
}

func specialistContact(specialist domain.Specialist) events.Contact {
	contact := events.Contact{UserID: specialist.ID}
	if specialist.PushToken != nil {
		contact.PushToken = *specialist.PushToken
	}
	if specialist.NotifyEmail != nil {
		contact.Email = *specialist.NotifyEmail
	}
	return contact
}
