// Package facilities provides the facilities bounded context module.
// A facility is a physical location with a fixed number of seats that
// bounds how many orders can be serviced at once.
package facilities

import (
	"freshr_backend/internal/facilities/handler"
	"freshr_backend/internal/facilities/repository"
	"freshr_backend/internal/facilities/service"
	apphttp "freshr_backend/internal/http"
	"freshr_backend/platform/logger"
	"freshr_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the facilities bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the facilities module.
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
	return "facilities"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts facility routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/facilities", m.handler.List)
	ctx.Protected.GET("/facilities/:id", m.handler.GetByID)

	adminGroup := ctx.Admin.Group("/facilities")
	adminGroup.POST("", m.handler.Create)
	adminGroup.PUT("/:id", m.handler.Update)
	adminGroup.PATCH("/:id/toggle-active", m.handler.ToggleActive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
