// Package catalog provides the service catalog bounded context module.
// It manages service types (categories) and the concrete offerings
// specialists sell through their queues.
package catalog

import (
	"freshr_backend/internal/catalog/handler"
	"freshr_backend/internal/catalog/repository"
	"freshr_backend/internal/catalog/service"
	apphttp "freshr_backend/internal/http"
	"freshr_backend/platform/httpkit"
	"freshr_backend/platform/logger"
	"freshr_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Protected read-only endpoints
	ctx.Protected.GET("/service-types", m.handler.ListActiveServiceTypes)
	ctx.Protected.GET("/service-types/:id", m.handler.GetServiceType)
	ctx.Protected.GET("/service-types/slug/:slug", m.handler.GetServiceTypeBySlug)
	ctx.Protected.GET("/specialists/:id/services", m.handler.ListSpecialistServices)

	// Specialist-managed offerings
	ownGroup := ctx.Protected.Group("/specialists/me/services")
	ownGroup.Use(httpkit.RequireRole(httpkit.RoleSpecialist))
	ownGroup.GET("", m.handler.ListOwnServices)
	ownGroup.POST("", m.handler.CreateService)
	ownGroup.PUT("/:id", m.handler.UpdateService)
	ownGroup.DELETE("/:id", m.handler.DeleteService)

	// Admin-only CRUD endpoints
	adminGroup := ctx.Admin.Group("/service-types")
	adminGroup.GET("", m.handler.ListServiceTypes)
	adminGroup.POST("", m.handler.CreateServiceType)
	adminGroup.GET("/:id", m.handler.GetServiceType)
	adminGroup.PUT("/:id", m.handler.UpdateServiceType)
	adminGroup.DELETE("/:id", m.handler.DeleteServiceType)
	adminGroup.PATCH("/:id/toggle-active", m.handler.ToggleServiceTypeActive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
