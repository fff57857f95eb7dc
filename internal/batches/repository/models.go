package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Batch statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Batch is a stored bulk validation request.
type Batch struct {
	ID           uuid.UUID
	OwnerID      string
	Status       string
	RuleSpec     json.RawMessage
	Locale       string
	Total        int
	InvalidCount int
	Error        *string
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// Item is one value of a batch. Valid is nil until the batch is processed;
// Failures holds the rendered failures as JSON.
type Item struct {
	Position int
	Value    string
	Valid    *bool
	Failures json.RawMessage
}

// ItemResult is the outcome for the item at Position.
type ItemResult struct {
	Position int
	Valid    bool
	Failures json.RawMessage
}
