package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freshr_backend/platform/httpkit"
)

// Specialist-side queue endpoints. The caller's identity is the queue owner;
// the service re-checks ownership against the order inside the transaction.

// Queue returns the caller's queue snapshot, front to back.
// GET /api/v1/specialists/me/queue
func (h *Handler) Queue(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetQueue(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SpecialistHistory lists the caller's finished orders.
// GET /api/v1/specialists/me/orders/history
func (h *Handler) SpecialistHistory(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListSpecialistHistory(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Accept accepts the front order and issues the start code.
// PATCH /api/v1/specialists/orders/:id/accept
func (h *Handler) Accept(c *gin.Context) {
	identity, orderID, ok := h.identityAndOrderID(c)
	if !ok {
		return
	}

	result, err := h.svc.Accept(c.Request.Context(), identity.UserID(), orderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Reject drops one of the caller's queued orders.
// PATCH /api/v1/specialists/orders/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	identity, orderID, ok := h.identityAndOrderID(c)
	if !ok {
		return
	}

	result, err := h.svc.Reject(c.Request.Context(), identity.UserID(), orderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Start begins servicing once the client's start code is proven.
// PATCH /api/v1/specialists/orders/:id/start/:code
func (h *Handler) Start(c *gin.Context) {
	identity, orderID, ok := h.identityAndOrderID(c)
	if !ok {
		return
	}

	code := c.Param("code")
	if code == "" {
		httpkit.Error(c, http.StatusBadRequest, "code is required", nil)
		return
	}

	result, err := h.svc.Start(c.Request.Context(), identity.UserID(), orderID, code)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Complete finishes servicing once the end code is proven.
// PATCH /api/v1/specialists/orders/:id/complete/:code
func (h *Handler) Complete(c *gin.Context) {
	identity, orderID, ok := h.identityAndOrderID(c)
	if !ok {
		return
	}

	code := c.Param("code")
	if code == "" {
		httpkit.Error(c, http.StatusBadRequest, "code is required", nil)
		return
	}

	result, err := h.svc.Complete(c.Request.Context(), identity.UserID(), orderID, code)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
