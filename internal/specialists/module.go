// Package specialists provides the specialist profile bounded context module.
// Profiles are keyed by the identity provider's user ID; queue state columns
// live on the same row but are mutated exclusively by the orders module.
package specialists

import (
	apphttp "freshr_backend/internal/http"
	"freshr_backend/internal/specialists/handler"
	"freshr_backend/internal/specialists/repository"
	"freshr_backend/internal/specialists/service"
	"freshr_backend/platform/config"
	"freshr_backend/platform/httpkit"
	"freshr_backend/platform/logger"
	"freshr_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the specialists bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the specialists module.
func NewModule(pool *pgxpool.Pool, cfg config.QueueConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "specialists"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts specialist routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/specialists/:id", m.handler.GetByID)
	ctx.Protected.GET("/facilities/:id/specialists", m.handler.ListByFacility)

	meGroup := ctx.Protected.Group("/specialists/me")
	meGroup.Use(httpkit.RequireRole(httpkit.RoleSpecialist))
	meGroup.GET("", m.handler.GetMe)
	meGroup.PUT("", m.handler.UpsertMe)
	meGroup.PATCH("/contact", m.handler.UpdateContact)
	meGroup.PATCH("/availability", m.handler.SetAvailability)
	meGroup.PATCH("/queueing", m.handler.SetQueueing)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
