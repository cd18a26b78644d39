package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freshr_backend/internal/adapters"
	"freshr_backend/internal/catalog"
	"freshr_backend/internal/chat"
	"freshr_backend/internal/email"
	"freshr_backend/platform/events"
	"freshr_backend/internal/facilities"
	apphttp "freshr_backend/internal/http"
	"freshr_backend/internal/http/router"
	"freshr_backend/internal/notification"
	"freshr_backend/internal/orders"
	"freshr_backend/internal/push"
	"freshr_backend/internal/scheduler"
	"freshr_backend/internal/specialists"
	"freshr_backend/platform/config"
	"freshr_backend/platform/db"
	"freshr_backend/platform/logger"
	"freshr_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	dispatcher, closeDispatcher := initDispatcher(cfg, log)
	if closeDispatcher != nil {
		defer closeDispatcher()
	}

	templates, err := notification.LoadTemplates(cfg.GetNotificationTemplatesPath())
	if err != nil {
		log.Error("failed to load notification templates", "error", err)
		panic("failed to load notification templates: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(dispatcher, templates, log)
	notificationModule.RegisterHandlers(eventBus)

	catalogModule := catalog.NewModule(pool, val, log)
	facilitiesModule := facilities.NewModule(pool, val, log)
	specialistsModule := specialists.NewModule(pool, cfg, val, log)
	chatModule := chat.NewModule(pool, eventBus, val, log)

	// Orders depends on catalog and chat through ports; the adapters break the
	// direct package dependency between the bounded contexts.
	catalogPort := adapters.NewCatalogAdapter(catalogModule.Service())
	chatPort := adapters.NewChatSessionsAdapter(chatModule.Service())
	ordersModule := orders.NewModule(pool, catalogPort, chatPort, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
			facilitiesModule,
			specialistsModule,
			ordersModule,
			chatModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initDispatcher picks the delivery path for notifications. With Redis
// configured, deliveries go through the asynq queue and the worker process;
// without it they are sent inline from the API process.
func initDispatcher(cfg *config.Config, log *logger.Logger) (notification.Dispatcher, func()) {
	if cfg.GetRedisURL() != "" {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		log.Info("notification deliveries queued via redis", "queue", cfg.GetAsynqQueueName())
		return client, func() {
			_ = client.Close()
		}
	}

	log.Warn("REDIS_URL not configured; sending notifications inline")
	var emailSender notification.EmailSender
	if cfg.GetEmailEnabled() {
		emailSender = email.NewSMTPSender(cfg)
	}
	return notification.NewDirectDispatcher(push.NewSender(cfg), emailSender), nil
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
