package capacity

import (
	"testing"

	"freshr_backend/internal/orders/domain"
)

func TestCanAdmitNotQueueing(t *testing.T) {
	s := domain.Specialist{IsQueueing: false, QueueLen: 0, MaxQueue: 4}
	if !CanAdmit(s) {
		t.Fatalf("expected admission with empty queue")
	}

	s.QueueLen = 1
	if CanAdmit(s) {
		t.Fatalf("expected rejection: not queueing and one order active")
	}
}

func TestCanAdmitQueueing(t *testing.T) {
	s := domain.Specialist{IsQueueing: true, MaxQueue: 4}

	for queueLen := 0; queueLen < 4; queueLen++ {
		s.QueueLen = queueLen
		if !CanAdmit(s) {
			t.Fatalf("expected admission at queue length %d with max 4", queueLen)
		}
	}

	s.QueueLen = 4
	if CanAdmit(s) {
		t.Fatalf("expected rejection of fifth order with max 4")
	}
}

func TestCanOccupySeat(t *testing.T) {
	if !CanOccupySeat(domain.Facility{TotalSeats: 3, AvailableSeats: 1}) {
		t.Fatalf("expected seat available")
	}
	if CanOccupySeat(domain.Facility{TotalSeats: 3, AvailableSeats: 0}) {
		t.Fatalf("expected no seat available")
	}
}
