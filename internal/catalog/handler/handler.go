package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freshr_backend/internal/catalog/service"
	"freshr_backend/internal/catalog/transport"
	"freshr_backend/platform/httpkit"
	"freshr_backend/platform/validator"
)

// Handler handles HTTP requests for the service catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid ID"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListServiceTypes retrieves all service types (admin only).
// GET /api/v1/admin/service-types
func (h *Handler) ListServiceTypes(c *gin.Context) {
	result, err := h.svc.ListServiceTypes(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListActiveServiceTypes retrieves only active service types.
// GET /api/v1/service-types
func (h *Handler) ListActiveServiceTypes(c *gin.Context) {
	result, err := h.svc.ListActiveServiceTypes(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetServiceType retrieves a service type by ID.
// GET /api/v1/service-types/:id
func (h *Handler) GetServiceType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetServiceType(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetServiceTypeBySlug retrieves a service type by slug.
// GET /api/v1/service-types/slug/:slug
func (h *Handler) GetServiceTypeBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		httpkit.Error(c, http.StatusBadRequest, "slug is required", nil)
		return
	}

	result, err := h.svc.GetServiceTypeBySlug(c.Request.Context(), slug)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateServiceType creates a new service type.
// POST /api/v1/admin/service-types
func (h *Handler) CreateServiceType(c *gin.Context) {
	var req transport.CreateServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateServiceType(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateServiceType updates an existing service type.
// PUT /api/v1/admin/service-types/:id
func (h *Handler) UpdateServiceType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateServiceType(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteServiceType removes a service type.
// DELETE /api/v1/admin/service-types/:id
func (h *Handler) DeleteServiceType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteServiceType(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleServiceTypeActive flips the is_active flag.
// PATCH /api/v1/admin/service-types/:id/toggle-active
func (h *Handler) ToggleServiceTypeActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.ToggleServiceTypeActive(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListSpecialistServices retrieves the active offerings of one specialist.
// GET /api/v1/specialists/:id/services
func (h *Handler) ListSpecialistServices(c *gin.Context) {
	specialistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.ListSpecialistServices(c.Request.Context(), specialistID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListOwnServices retrieves the caller's offerings.
// GET /api/v1/specialists/me/services
func (h *Handler) ListOwnServices(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListSpecialistServices(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateService creates an offering owned by the caller.
// POST /api/v1/specialists/me/services
func (h *Handler) CreateService(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateService(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateService updates an offering owned by the caller.
// PUT /api/v1/specialists/me/services/:id
func (h *Handler) UpdateService(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateService(c.Request.Context(), identity.UserID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteService retires an offering owned by the caller.
// DELETE /api/v1/specialists/me/services/:id
func (h *Handler) DeleteService(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteService(c.Request.Context(), identity.UserID(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}
