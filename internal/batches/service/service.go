// Package service stores batch validation requests, hands them to the job
// queue and processes them in the worker.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"phonenumber_validator/internal/batches/repository"
	"phonenumber_validator/internal/batches/transport"
	"phonenumber_validator/internal/events"
	"phonenumber_validator/internal/phonenumber"
	"phonenumber_validator/internal/scheduler"
	validationtransport "phonenumber_validator/internal/validation/transport"
	"phonenumber_validator/platform/apperr"
	"phonenumber_validator/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// defaultConcurrency bounds the goroutines validating one batch.
const defaultConcurrency = 8

// RuleResolver builds rules from requests and renders results.
type RuleResolver interface {
	Rule(spec validationtransport.RuleSpec) (*phonenumber.Rule, error)
	Respond(result phonenumber.Result, locale string) validationtransport.ValidateResponse
	MatchLocale(preferences ...string) string
}

type Service struct {
	repo        repository.BatchStore
	queue       scheduler.BatchEnqueuer
	rules       RuleResolver
	bus         events.Bus
	log         *logger.Logger
	concurrency int
}

var _ scheduler.BatchProcessor = (*Service)(nil)

// New creates the batches service. queue may be nil in processes that only
// run the worker.
func New(repo repository.BatchStore, queue scheduler.BatchEnqueuer, rules RuleResolver, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		queue:       queue,
		rules:       rules,
		bus:         bus,
		log:         log,
		concurrency: defaultConcurrency,
	}
}

// Submit checks the rule, stores the batch and enqueues it. The rule is built
// up front so configuration errors reach the caller instead of the worker.
func (s *Service) Submit(ctx context.Context, ownerID string, req transport.SubmitRequest, locales []string) (transport.SubmitResponse, error) {
	if s.queue == nil {
		return transport.SubmitResponse{}, apperr.Unavailable("batch processing is not configured")
	}

	spec := req.Spec()
	if _, err := s.rules.Rule(spec); err != nil {
		s.log.WithContext(ctx).RuleRejected("batches.Submit", err)
		return transport.SubmitResponse{}, err
	}

	specJSON, err := json.Marshal(spec)
	if err != nil {
		return transport.SubmitResponse{}, apperr.Wrap(apperr.KindInternal, "encode rule", err)
	}

	batch := repository.Batch{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Status:   repository.StatusPending,
		RuleSpec: specJSON,
		Locale:   s.rules.MatchLocale(locales...),
		Total:    len(req.Values),
	}
	if err := s.repo.Create(ctx, batch, req.Values); err != nil {
		s.log.DatabaseError("create batch", err)
		return transport.SubmitResponse{}, apperr.Wrap(apperr.KindInternal, "store batch", err)
	}

	if err := s.queue.EnqueueValidateBatch(ctx, batch.ID); err != nil {
		_ = s.repo.Fail(ctx, batch.ID, "enqueue failed")
		s.log.Error("failed to enqueue batch", "batchId", batch.ID, "error", err)
		return transport.SubmitResponse{}, apperr.Wrap(apperr.KindUnavailable, "batch queue unavailable", err)
	}

	s.log.WithContext(ctx).BatchEvent("submitted", batch.ID.String(), batch.Total, 0)
	return transport.SubmitResponse{ID: batch.ID, Status: batch.Status, Total: batch.Total}, nil
}

// Get returns the batch with its items. Batches of other owners are reported
// as not found.
func (s *Service) Get(ctx context.Context, ownerID string, id uuid.UUID) (transport.BatchResponse, error) {
	batch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.BatchResponse{}, err
	}
	if batch.OwnerID != ownerID {
		return transport.BatchResponse{}, apperr.NotFound("batch not found")
	}

	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return transport.BatchResponse{}, err
	}

	resp := transport.BatchResponse{
		ID:          batch.ID,
		Status:      batch.Status,
		Locale:      batch.Locale,
		Total:       batch.Total,
		Invalid:     batch.InvalidCount,
		Error:       batch.Error,
		CreatedAt:   batch.CreatedAt,
		CompletedAt: batch.CompletedAt,
		Items:       make([]transport.ItemResponse, 0, len(items)),
	}
	for _, item := range items {
		failures := []validationtransport.FailureResponse{}
		if len(item.Failures) > 0 {
			if err := json.Unmarshal(item.Failures, &failures); err != nil {
				return transport.BatchResponse{}, fmt.Errorf("decode item %d failures: %w", item.Position, err)
			}
		}
		resp.Items = append(resp.Items, transport.ItemResponse{
			Position: item.Position,
			Value:    item.Value,
			Valid:    item.Valid,
			Errors:   failures,
		})
	}
	return resp, nil
}

// Process validates every item of a pending batch. Batches that are already
// finished are skipped so retried tasks are harmless. A batch whose rule can
// no longer be built is marked failed and not retried.
func (s *Service) Process(ctx context.Context, id uuid.UUID) error {
	batch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if batch.Status != repository.StatusPending {
		return nil
	}

	var spec validationtransport.RuleSpec
	if err := json.Unmarshal(batch.RuleSpec, &spec); err != nil {
		return s.fail(ctx, batch, "stored rule is unreadable")
	}
	rule, err := s.rules.Rule(spec)
	if err != nil {
		return s.fail(ctx, batch, err.Error())
	}

	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return err
	}

	results, invalid, err := s.validateItems(ctx, rule, batch.Locale, items)
	if err != nil {
		return err
	}

	if err := s.repo.Complete(ctx, id, results); err != nil {
		s.log.DatabaseError("complete batch", err)
		return err
	}

	s.log.BatchEvent("completed", id.String(), len(results), invalid)
	if s.bus != nil {
		s.bus.Publish(ctx, events.BatchCompleted{
			BaseEvent: events.NewBaseEvent(),
			BatchID:   id,
			OwnerID:   batch.OwnerID,
			Total:     len(results),
			Invalid:   invalid,
		})
	}
	return nil
}

func (s *Service) validateItems(ctx context.Context, rule *phonenumber.Rule, locale string, items []repository.Item) ([]repository.ItemResult, int, error) {
	results := make([]repository.ItemResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resp := s.rules.Respond(phonenumber.Validate(item.Value, rule), locale)
			failures, err := json.Marshal(resp.Errors)
			if err != nil {
				return fmt.Errorf("encode item %d failures: %w", item.Position, err)
			}
			results[i] = repository.ItemResult{Position: item.Position, Valid: resp.Valid, Failures: failures}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	invalid := 0
	for _, res := range results {
		if !res.Valid {
			invalid++
		}
	}
	return results, invalid, nil
}

func (s *Service) fail(ctx context.Context, batch repository.Batch, reason string) error {
	if err := s.repo.Fail(ctx, batch.ID, reason); err != nil {
		return err
	}
	s.log.BatchEvent("failed", batch.ID.String(), batch.Total, 0)
	if s.bus != nil {
		s.bus.Publish(ctx, events.BatchFailed{
			BaseEvent: events.NewBaseEvent(),
			BatchID:   batch.ID,
			OwnerID:   batch.OwnerID,
			Reason:    reason,
		})
	}
	return nil
}
