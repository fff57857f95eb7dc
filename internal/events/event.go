// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"phonenumber_validator/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Batch Domain Events
// =============================================================================

// BatchCompleted is published when a worker has validated every item of a batch.
type BatchCompleted struct {
	BaseEvent
	BatchID uuid.UUID `json:"batchId"`
	OwnerID string    `json:"ownerId"`
	Total   int       `json:"total"`
	Invalid int       `json:"invalid"`
}

func (e BatchCompleted) EventName() string { return "phonenumbers.batch.completed" }

// BatchFailed is published when a batch could not be processed.
type BatchFailed struct {
	BaseEvent
	BatchID uuid.UUID `json:"batchId"`
	OwnerID string    `json:"ownerId"`
	Reason  string    `json:"reason"`
}

func (e BatchFailed) EventName() string { return "phonenumbers.batch.failed" }
