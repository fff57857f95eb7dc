package scheduler

import (
	"context"
	"fmt"

	"phonenumber_validator/platform/config"
	"phonenumber_validator/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// BatchProcessor validates every item of a stored batch.
type BatchProcessor interface {
	Process(ctx context.Context, batchID uuid.UUID) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor BatchProcessor
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, processor BatchProcessor, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		processor: processor,
		log:       log,
	}

	mux.HandleFunc(TaskValidateBatch, w.handleValidateBatch)

	return w, nil
}

// Run processes batch tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	if err := w.server.Start(w.mux); err != nil {
		w.log.Error("batch worker failed to start", "error", err)
		return
	}
	w.log.Info("batch worker started")

	<-ctx.Done()
	w.server.Shutdown()
	w.log.Info("batch worker stopped")
}

func (w *Worker) handleValidateBatch(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseValidateBatchPayload(task)
	if err != nil {
		return fmt.Errorf("parse batch payload: %v: %w", err, asynq.SkipRetry)
	}

	batchID, err := uuid.Parse(payload.BatchID)
	if err != nil {
		return fmt.Errorf("parse batch id: %v: %w", err, asynq.SkipRetry)
	}

	return w.processor.Process(ctx, batchID)
}
