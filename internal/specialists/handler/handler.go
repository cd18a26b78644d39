package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freshr_backend/internal/specialists/service"
	"freshr_backend/internal/specialists/transport"
	"freshr_backend/platform/httpkit"
	"freshr_backend/platform/validator"
)

// Handler handles HTTP requests for specialist profiles.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid ID"
)

// New creates a new specialists handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetByID retrieves a specialist's public profile.
// GET /api/v1/specialists/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListByFacility retrieves available specialists at one facility.
// GET /api/v1/facilities/:id/specialists
func (h *Handler) ListByFacility(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.ListByFacility(c.Request.Context(), facilityID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetMe retrieves the caller's own profile including queue state.
// GET /api/v1/specialists/me
func (h *Handler) GetMe(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpsertMe creates or updates the caller's profile.
// PUT /api/v1/specialists/me
func (h *Handler) UpsertMe(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpsertProfile(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateContact registers the caller's notification endpoints.
// PATCH /api/v1/specialists/me/contact
func (h *Handler) UpdateContact(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if httpkit.HandleError(c, h.svc.UpdateContact(c.Request.Context(), identity.UserID(), req)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// SetAvailability toggles whether the caller is listed at their facility.
// PATCH /api/v1/specialists/me/availability
func (h *Handler) SetAvailability(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.SetAvailability(c.Request.Context(), identity.UserID(), req.IsAvailable)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// SetQueueing toggles whether orders may queue behind the one being serviced.
// PATCH /api/v1/specialists/me/queueing
func (h *Handler) SetQueueing(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.SetQueueingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.SetQueueing(c.Request.Context(), identity.UserID(), req.IsQueueing)) {
		return
	}
	c.Status(http.StatusNoContent)
}
