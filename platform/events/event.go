// Package events defines the in-process event contracts used to report batch
// lifecycle changes to subscribers such as loggers.
// This is part of the platform layer and contains no business logic.
package events

import (
	"context"
	"time"
)

// Event is implemented by every published event.
type Event interface {
	// EventName is the subscription key, e.g. "phonenumbers.batch.completed".
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the publication time. Embed it in concrete events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler reacts to one event. Returned errors are logged by the bus and
// never reach the publisher of an asynchronous event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus delivers events to the handlers subscribed to their name.
type Bus interface {
	// Publish dispatches in the background. The publisher's cancellation does
	// not stop delivery.
	Publish(ctx context.Context, event Event)

	// PublishSync runs handlers in subscription order and joins their errors.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers handler for eventName.
	Subscribe(eventName string, handler Handler)
}
