// Package chat provides order-scoped chat sessions. A session opens when an
// order enters the queue and is destroyed when the order leaves its active
// window; message delivery transports are external collaborators.
package chat

import (
	"freshr_backend/internal/chat/handler"
	"freshr_backend/internal/chat/repository"
	"freshr_backend/internal/chat/service"
	"freshr_backend/internal/events"
	apphttp "freshr_backend/internal/http"
	"freshr_backend/platform/logger"
	"freshr_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the chat bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the chat module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "chat"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts chat routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	chatGroup := ctx.Protected.Group("/chats")
	chatGroup.GET("/order/:orderId", m.handler.GetByOrder)
	chatGroup.POST("/order/:orderId/messages", m.handler.SendMessage)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
