package repository

import (
	"context"
	"errors"
	"fmt"

	"phonenumber_validator/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const batchNotFoundMsg = "batch not found"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create stores the batch and its items in one transaction.
func (r *Repository) Create(ctx context.Context, batch Batch, values []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO validation_batches (id, owner_id, status, rule_spec, locale, total)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		batch.ID, batch.OwnerID, batch.Status, []byte(batch.RuleSpec), batch.Locale, batch.Total,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	rows := make([][]any, len(values))
	for i, value := range values {
		rows[i] = []any{batch.ID, i, value}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"validation_batch_items"},
		[]string{"batch_id", "position", "value"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("insert batch items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create batch: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Batch, error) {
	var b Batch
	var spec []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, status, rule_spec, locale, total, invalid_count, error, created_at, completed_at
		FROM validation_batches
		WHERE id = $1`, id,
	).Scan(&b.ID, &b.OwnerID, &b.Status, &spec, &b.Locale, &b.Total, &b.InvalidCount, &b.Error, &b.CreatedAt, &b.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Batch{}, apperr.NotFound(batchNotFoundMsg)
	}
	if err != nil {
		return Batch{}, fmt.Errorf("get batch: %w", err)
	}
	b.RuleSpec = spec
	return b, nil
}

func (r *Repository) ListItems(ctx context.Context, id uuid.UUID) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT position, value, is_valid, failures
		FROM validation_batch_items
		WHERE batch_id = $1
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list batch items: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Item, error) {
		var item Item
		var failures []byte
		err := row.Scan(&item.Position, &item.Value, &item.Valid, &failures)
		item.Failures = failures
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan batch items: %w", err)
	}
	return items, nil
}

// Complete stores every item result and marks the batch completed. A batch
// that is no longer pending is left untouched.
func (r *Repository) Complete(ctx context.Context, id uuid.UUID, results []ItemResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin complete batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	invalid := 0
	batch := &pgx.Batch{}
	for _, res := range results {
		if !res.Valid {
			invalid++
		}
		batch.Queue(`
			UPDATE validation_batch_items
			SET is_valid = $3, failures = $4
			WHERE batch_id = $1 AND position = $2`,
			id, res.Position, res.Valid, []byte(res.Failures),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("store batch results: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE validation_batches
		SET status = $2, invalid_count = $3, completed_at = now()
		WHERE id = $1 AND status = $4`,
		id, StatusCompleted, invalid, StatusPending,
	)
	if err != nil {
		return fmt.Errorf("complete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit complete batch: %w", err)
	}
	return nil
}

func (r *Repository) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE validation_batches
		SET status = $2, error = $3, completed_at = now()
		WHERE id = $1 AND status = $4`,
		id, StatusFailed, reason, StatusPending,
	)
	if err != nil {
		return fmt.Errorf("fail batch: %w", err)
	}
	return nil
}
