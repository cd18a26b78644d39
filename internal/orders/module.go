// Package orders provides the order queue bounded context module: intake,
// payment-time admission, the per-specialist queue, and the verified
// accept/start/complete lifecycle.
package orders

import (
	"freshr_backend/internal/events"
	apphttp "freshr_backend/internal/http"
	"freshr_backend/internal/orders/handler"
	"freshr_backend/internal/orders/ports"
	"freshr_backend/internal/orders/repository"
	"freshr_backend/internal/orders/service"
	"freshr_backend/platform/httpkit"
	"freshr_backend/platform/logger"
	"freshr_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	store   repository.Store
}

// NewModule creates and initializes the orders module. The catalog and chat
// collaborators come in as ports so the composition root controls the wiring.
func NewModule(pool *pgxpool.Pool, catalog ports.Catalog, chats ports.ChatSessions, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	store := repository.New(pool)
	svc := service.New(store, catalog, chats, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		store:   store,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orders"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts order routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ordersGroup := ctx.Protected.Group("/orders")
	ordersGroup.POST("/checkout", m.handler.Checkout)
	ordersGroup.GET("/history", m.handler.History)
	ordersGroup.GET("/:id", m.handler.GetOrder)
	ordersGroup.POST("/:id/pay", m.handler.Pay)
	ordersGroup.POST("/:id/cancel", m.handler.Cancel)
	ordersGroup.GET("/:id/start-code.png", m.handler.StartCodePNG)
	ordersGroup.GET("/:id/end-code.png", m.handler.EndCodePNG)

	specialistGroup := ctx.Protected.Group("/specialists")
	specialistGroup.Use(httpkit.RequireRole(httpkit.RoleSpecialist))
	specialistGroup.GET("/me/queue", m.handler.Queue)
	specialistGroup.GET("/me/orders/history", m.handler.SpecialistHistory)
	specialistGroup.PATCH("/orders/:id/accept", m.handler.Accept)
	specialistGroup.PATCH("/orders/:id/reject", m.handler.Reject)
	specialistGroup.PATCH("/orders/:id/start/:code", m.handler.Start)
	specialistGroup.PATCH("/orders/:id/complete/:code", m.handler.Complete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
