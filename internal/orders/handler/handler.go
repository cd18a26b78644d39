package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"freshr_backend/internal/orders/service"
	"freshr_backend/internal/orders/transport"
	"freshr_backend/platform/httpkit"
	"freshr_backend/platform/validator"
)

// Handler handles HTTP requests for orders and queue transitions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid order ID"

	qrSize = 256
)

// New creates a new orders handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Checkout creates an unpaid order for the caller.
// POST /api/v1/orders/checkout
func (h *Handler) Checkout(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Checkout(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Pay confirms payment and enters the order into the specialist's queue.
// POST /api/v1/orders/:id/pay
func (h *Handler) Pay(c *gin.Context) {
	identity, orderID, ok := h.identityAndOrderID(c)
	if !ok {
		return
	}

	result, err := h.svc.ConfirmPayment(c.Request.Context(), identity.UserID(), orderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetOrder retrieves an order visible to the caller.
// GET /api/v1/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	identity, orderID, ok := h.identityAndOrderID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetOrder(c.Request.Context(), identity.UserID(), orderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Cancel withdraws the caller's order.
// POST /api/v1/orders/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	identity, orderID, ok := h.identityAndOrderID(c)
	if !ok {
		return
	}

	result, err := h.svc.Cancel(c.Request.Context(), identity.UserID(), orderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// History lists the caller's finished orders.
// GET /api/v1/orders/history
func (h *Handler) History(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListClientHistory(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// StartCodePNG renders the order's start code as a QR image the client shows
// in person.
// GET /api/v1/orders/:id/start-code.png
func (h *Handler) StartCodePNG(c *gin.Context) {
	h.codePNG(c, h.svc.GetStartCode)
}

// EndCodePNG renders the order's end code as a QR image.
// GET /api/v1/orders/:id/end-code.png
func (h *Handler) EndCodePNG(c *gin.Context) {
	h.codePNG(c, h.svc.GetEndCode)
}

func (h *Handler) codePNG(c *gin.Context, fetch func(ctx context.Context, clientID, orderID uuid.UUID) (string, error)) {
	identity, orderID, ok := h.identityAndOrderID(c)
	if !ok {
		return
	}

	code, err := fetch(c.Request.Context(), identity.UserID(), orderID)
	if httpkit.HandleError(c, err) {
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, qrSize)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "could not render code", nil)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) identityAndOrderID(c *gin.Context) (httpkit.Identity, uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return nil, uuid.Nil, false
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return nil, uuid.Nil, false
	}

	return identity, orderID, true
}
