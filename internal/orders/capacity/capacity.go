// Package capacity holds the pure admission and seating rules for the order
// queue. Keeping them as free functions makes the guards trivially testable
// and keeps the transition code readable.
package capacity

import "freshr_backend/internal/orders/domain"

// CanAdmit reports whether a new paid order may join the specialist's queue.
//
// A specialist who is not queueing serves strictly one client at a time, so
// admission requires an empty queue. A queueing specialist admits until the
// queue (including the new order) would exceed MaxQueue.
func CanAdmit(s domain.Specialist) bool {
	if s.IsQueueing {
		return s.QueueLen+1 <= s.MaxQueue
	}
	return s.QueueLen == 0
}

// CanOccupySeat reports whether the facility has a free seat for a client
// being accepted into servicing. The seat write itself is clamped to
// [0, total_seats] in the repository.
func CanOccupySeat(f domain.Facility) bool {
	return f.AvailableSeats > 0
}
