package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phonenumber_validator/internal/batches"
	"phonenumber_validator/internal/countries"
	"phonenumber_validator/internal/events"
	"phonenumber_validator/internal/scheduler"
	"phonenumber_validator/internal/validation"
	"phonenumber_validator/platform/config"
	"phonenumber_validator/platform/db"
	"phonenumber_validator/platform/logger"
	"phonenumber_validator/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting batch worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName(), "concurrency", cfg.GetAsynqConcurrency())

	if !cfg.IsBatchesEnabled() {
		log.Error("REDIS_URL is required for the batch worker")
		panic("REDIS_URL is required for the batch worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Migrations are applied by the API process.
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

	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	registry, err := countries.NewRegistry(ctx, cfg, pool, log)
	if err != nil {
		log.Error("failed to load country registry", "error", err)
		panic("failed to load country registry: " + err.Error())
	}

	val := validator.New()

	// Worker-side wiring only; no HTTP routes are registered.
	validationModule, err := validation.NewModule(registry, cfg, val, log)
	if err != nil {
		log.Error("failed to initialize validation module", "error", err)
		panic("failed to initialize validation module: " + err.Error())
	}
	batchesModule := batches.NewModule(pool, nil, validationModule.Service(), eventBus, val, log)
	batchesModule.RegisterHandlers(eventBus)

	worker, err := scheduler.NewWorker(cfg, batchesModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize batch worker", "error", err)
		panic("failed to initialize batch worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
