// Package batches validates lists of phone numbers in the background.
package batches

import (
	"context"

	"phonenumber_validator/internal/batches/handler"
	"phonenumber_validator/internal/batches/repository"
	"phonenumber_validator/internal/batches/service"
	"phonenumber_validator/internal/events"
	apphttp "phonenumber_validator/internal/http"
	"phonenumber_validator/internal/scheduler"
	"phonenumber_validator/platform/logger"
	"phonenumber_validator/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the batch routes and the batch event subscribers.
type Module struct {
	handler *handler.Handler
	service *service.Service
	log     *logger.Logger
}

// NewModule creates the batches module. queue is nil in the worker process.
func NewModule(pool *pgxpool.Pool, queue scheduler.BatchEnqueuer, rules service.RuleResolver, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), queue, rules, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		log:     log,
	}
}

// Service exposes the batch processor for the worker.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "batches"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/phone-numbers/batches")
	group.POST("", m.handler.Submit)
	group.GET("/:id", m.handler.Get)
}

// RegisterHandlers subscribes the batch lifecycle loggers to bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.BatchCompleted{}.EventName(), events.HandlerFunc(m.onBatchCompleted))
	bus.Subscribe(events.BatchFailed{}.EventName(), events.HandlerFunc(m.onBatchFailed))
}

func (m *Module) onBatchCompleted(_ context.Context, event events.Event) error {
	e, ok := event.(events.BatchCompleted)
	if !ok {
		return nil
	}
	m.log.Info("batch completed", "batchId", e.BatchID, "ownerId", e.OwnerID, "total", e.Total, "invalid", e.Invalid)
	return nil
}

func (m *Module) onBatchFailed(_ context.Context, event events.Event) error {
	e, ok := event.(events.BatchFailed)
	if !ok {
		return nil
	}
	m.log.Warn("batch failed", "batchId", e.BatchID, "ownerId", e.OwnerID, "reason", e.Reason)
	return nil
}

var _ apphttp.Module = (*Module)(nil)
