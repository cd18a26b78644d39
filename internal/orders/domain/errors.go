package domain

import "freshr_backend/platform/apperr"

// Machine-readable codes for queue transition rejections. Clients key retry
// and messaging behavior off these, not the human-readable message.
const (
	CodeCapacityExceeded       = "CAPACITY_EXCEEDED"
	CodeNotFrontOfQueue        = "NOT_FRONT_OF_QUEUE"
	CodeInvalidCode            = "INVALID_CODE"
	CodeInvalidStatus          = "INVALID_STATUS"
	CodeWrongSpecialist        = "WRONG_SPECIALIST"
	CodeSeatUnavailable        = "SEAT_UNAVAILABLE"
	CodeAlreadyPaid            = "ALREADY_PAID"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

// ErrCapacityExceeded rejects admission into a full or closed queue.
func ErrCapacityExceeded() *apperr.Error {
	return apperr.Conflict("specialist queue is full").WithCode(CodeCapacityExceeded)
}

// ErrNotFrontOfQueue rejects a transition on an order that is not at the
// front. The current position is included so clients can show wait progress.
func ErrNotFrontOfQueue(position int) *apperr.Error {
	return apperr.Conflict("order is not at the front of the queue").
		WithCode(CodeNotFrontOfQueue).
		WithDetails(map[string]int{"position": position})
}

// ErrInvalidCode rejects a transition with a wrong verification code.
func ErrInvalidCode() *apperr.Error {
	return apperr.Conflict("verification code does not match").WithCode(CodeInvalidCode)
}

// ErrInvalidStatus rejects a transition from an incompatible status.
func ErrInvalidStatus(current Status) *apperr.Error {
	return apperr.Conflict("order status does not allow this transition").
		WithCode(CodeInvalidStatus).
		WithDetails(map[string]string{"status": string(current)})
}

// ErrWrongSpecialist rejects a specialist acting on another queue's order.
func ErrWrongSpecialist() *apperr.Error {
	return apperr.Forbidden("order belongs to another specialist").WithCode(CodeWrongSpecialist)
}

// ErrSeatUnavailable rejects accepting a client when the facility has no
// free seat.
func ErrSeatUnavailable() *apperr.Error {
	return apperr.Conflict("no seat available at the facility").WithCode(CodeSeatUnavailable)
}

// ErrAlreadyPaid rejects paying an order twice.
func ErrAlreadyPaid() *apperr.Error {
	return apperr.Conflict("order is already paid").WithCode(CodeAlreadyPaid)
}

// ErrConcurrentModification signals the row changed under the transaction.
// Safe to retry once; the retry re-reads all state.
func ErrConcurrentModification() *apperr.Error {
	return apperr.Conflict("order was modified concurrently").WithCode(CodeConcurrentModification)
}
