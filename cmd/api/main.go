package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phonenumber_validator/internal/batches"
	"phonenumber_validator/internal/countries"
	"phonenumber_validator/internal/events"
	apphttp "phonenumber_validator/internal/http"
	"phonenumber_validator/internal/http/router"
	"phonenumber_validator/internal/scheduler"
	"phonenumber_validator/internal/validation"
	"phonenumber_validator/migrations"
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

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "patternSource", cfg.PatternSource)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	pool := connectDatabase(ctx, cfg, log)
	if pool != nil {
		defer pool.Close()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	registry, err := countries.NewRegistry(ctx, cfg, pool, log)
	if err != nil {
		log.Error("failed to load country registry", "error", err)
		panic("failed to load country registry: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	validationModule, err := validation.NewModule(registry, cfg, val, log)
	if err != nil {
		log.Error("failed to initialize validation module", "error", err)
		panic("failed to initialize validation module: " + err.Error())
	}
	countriesModule := countries.NewModule(registry)

	modules := []apphttp.Module{validationModule, countriesModule}

	if cfg.IsBatchesEnabled() {
		batchQueue, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize batch queue client", "error", err)
			panic("failed to initialize batch queue client: " + err.Error())
		}
		defer func() { _ = batchQueue.Close() }()

		batchesModule := batches.NewModule(pool, batchQueue, validationModule.Service(), eventBus, val, log)
		batchesModule.RegisterHandlers(eventBus)
		modules = append(modules, batchesModule)
	} else {
		log.Warn("REDIS_URL not configured; batch validation disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		EventBus: eventBus,
		Modules:  modules,
	}
	if pool != nil {
		app.Health = pool
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// connectDatabase opens the pool and applies migrations. It returns nil when
// no database is configured.
func connectDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) *pgxpool.Pool {
	if !cfg.IsDatabaseEnabled() {
		log.Info("DATABASE_URL not configured; running without database")
		return nil
	}

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
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, migrations.FS, ".")
	}); err != nil {
		pool.Close()
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	return pool
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
