package scheduler

import (
	"context"
	"fmt"

	"freshr_backend/platform/config"
	"freshr_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// PushSender delivers one push notification to a device token.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// EmailSender delivers one email to a recipient.
type EmailSender interface {
	Send(ctx context.Context, toEmail, subject, body string) error
}

// Worker consumes queued deliveries and hands them to the senders.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

// NewWorker creates the delivery worker. The email sender may be nil when
// SMTP is not configured; email tasks are then dropped with a log line.
func NewWorker(cfg config.SchedulerConfig, pushSender PushSender, emailSender EmailSender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}
	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue: 1},
	})

	w := &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
		log:    log,
	}

	w.mux.HandleFunc(TaskPushDelivery, func(ctx context.Context, task *asynq.Task) error {
		payload, err := ParsePushDeliveryPayload(task)
		if err != nil {
			return fmt.Errorf("parse push payload: %w", err)
		}
		if err := pushSender.Send(ctx, payload.Token, payload.Title, payload.Body, payload.Data); err != nil {
			return fmt.Errorf("deliver push: %w", err)
		}
		return nil
	})

	w.mux.HandleFunc(TaskEmailDelivery, func(ctx context.Context, task *asynq.Task) error {
		payload, err := ParseEmailDeliveryPayload(task)
		if err != nil {
			return fmt.Errorf("parse email payload: %w", err)
		}
		if emailSender == nil {
			log.NotifyDropped("email", payload.To, fmt.Errorf("smtp not configured"))
			return nil
		}
		if err := emailSender.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
			return fmt.Errorf("deliver email: %w", err)
		}
		return nil
	})

	return w, nil
}

// Run starts the worker and blocks until ctx is cancelled or the server fails.
func (w *Worker) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		w.log.Info("stopping delivery worker")
		w.server.Shutdown()
	}()

	w.log.Info("delivery worker started")
	if err := w.server.Run(w.mux); err != nil {
		return fmt.Errorf("run delivery worker: %w", err)
	}
	return nil
}
