package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"freshr_backend/internal/email"
	"freshr_backend/internal/push"
	"freshr_backend/internal/scheduler"
	"freshr_backend/platform/config"
	"freshr_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting delivery worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var emailSender scheduler.EmailSender
	if cfg.GetEmailEnabled() {
		emailSender = email.NewSMTPSender(cfg)
	} else {
		log.Warn("SMTP not configured; email deliveries will be dropped")
	}

	worker, err := scheduler.NewWorker(cfg, push.NewSender(cfg), emailSender, log)
	if err != nil {
		log.Error("failed to initialize delivery worker", "error", err)
		panic("failed to initialize delivery worker: " + err.Error())
	}

	if err := worker.Run(ctx); err != nil {
		log.Error("delivery worker error", "error", err)
		panic("delivery worker error: " + err.Error())
	}

	log.Info("delivery worker stopped")
}
