package countries

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores country patterns in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new country pattern repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns active patterns in display order.
func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	query := `
		SELECT id, name, pattern
		FROM country_patterns
		WHERE is_active
		ORDER BY position, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list country patterns: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.ID, &e.Name, &e.Pattern)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan country patterns: %w", err)
	}

	return entries, nil
}

// Count returns the number of stored patterns, active or not.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM country_patterns`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count country patterns: %w", err)
	}
	return n, nil
}

// Seed inserts entries that are not stored yet, keeping their order.
func (r *Repository) Seed(ctx context.Context, entries []Entry) error {
	query := `
		INSERT INTO country_patterns (id, name, pattern, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`

	batch := &pgx.Batch{}
	for i, e := range entries {
		batch.Queue(query, e.ID, e.Name, e.Pattern, i)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer func() {
		_ = br.Close()
	}()

	for _, e := range entries {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("seed country pattern %s: %w", e.ID, err)
		}
	}
	return nil
}

// Load snapshots the active patterns into an immutable registry.
func (r *Repository) Load(ctx context.Context) (*Static, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewStatic(entries)
}
