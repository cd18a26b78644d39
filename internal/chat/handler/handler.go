package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freshr_backend/internal/chat/service"
	"freshr_backend/internal/chat/transport"
	"freshr_backend/platform/httpkit"
	"freshr_backend/platform/validator"
)

// Handler handles HTTP requests for chat sessions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid order ID"
)

// New creates a new chat handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetByOrder retrieves the chat session attached to an order.
// GET /api/v1/chats/order/:orderId
func (h *Handler) GetByOrder(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetByOrder(c.Request.Context(), identity.UserID(), orderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SendMessage appends a message to an order's active session.
// POST /api/v1/chats/order/:orderId/messages
func (h *Handler) SendMessage(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.SendMessage(c.Request.Context(), identity.UserID(), orderID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}
