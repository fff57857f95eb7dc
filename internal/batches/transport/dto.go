package transport

import (
	"time"

	validationtransport "phonenumber_validator/internal/validation/transport"

	"github.com/google/uuid"
)

// MaxBatchValues is the largest batch accepted in one request.
const MaxBatchValues = 1000

// SubmitRequest is the body of POST /phone-numbers/batches.
type SubmitRequest struct {
	Values        []string                          `json:"values" validate:"required,min=1,max=1000,dive,max=64"`
	Countries     validationtransport.Countries     `json:"countries"`
	International validationtransport.International `json:"international"`
}

// Spec returns the rule part of the request.
func (r SubmitRequest) Spec() validationtransport.RuleSpec {
	return validationtransport.RuleSpec{Countries: r.Countries, International: r.International}
}

// SubmitResponse acknowledges a queued batch.
type SubmitResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
	Total  int       `json:"total"`
}

// ItemResponse is one value of a batch with its outcome once processed.
type ItemResponse struct {
	Position int                                   `json:"position"`
	Value    string                                `json:"value"`
	Valid    *bool                                 `json:"valid"`
	Errors   []validationtransport.FailureResponse `json:"errors"`
}

// BatchResponse describes a batch and its items.
type BatchResponse struct {
	ID          uuid.UUID      `json:"id"`
	Status      string         `json:"status"`
	Locale      string         `json:"locale"`
	Total       int            `json:"total"`
	Invalid     int            `json:"invalid"`
	Error       *string        `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	Items       []ItemResponse `json:"items"`
}
