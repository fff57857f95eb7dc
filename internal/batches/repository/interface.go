package repository

import (
	"context"

	"github.com/google/uuid"
)

// BatchStore is the persistence contract used by the batches service.
type BatchStore interface {
	Create(ctx context.Context, batch Batch, values []string) error
	GetByID(ctx context.Context, id uuid.UUID) (Batch, error)
	ListItems(ctx context.Context, id uuid.UUID) ([]Item, error)
	Complete(ctx context.Context, id uuid.UUID, results []ItemResult) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error
}

var _ BatchStore = (*Repository)(nil)
