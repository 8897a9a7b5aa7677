// Package events defines the in-process event contracts the modules publish
// lead lifecycle changes over. The concrete bus lives in bus.go; domain event
// types live with their modules.
package events

import (
	"context"
	"time"
)

// Event is implemented by every published domain event.
type Event interface {
	// EventName identifies the event type; subscriptions key on it.
	EventName() string
	// OccurredAt reports when the event happened.
	OccurredAt() time.Time
}

// BaseEvent carries the timestamp shared by all event types. Embed it and
// implement EventName on the concrete event.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt reports when the event happened.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events of one registered type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes domain events to subscribed handlers.
type Bus interface {
	// Publish fans the event out to its handlers on background goroutines
	// and returns immediately.
	Publish(ctx context.Context, event Event)

	// PublishSync runs every handler before returning and reports the first
	// handler error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under the name the event's EventName
	// returns.
	Subscribe(eventName string, handler Handler)
}
