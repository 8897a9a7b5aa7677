package events

import (
	"context"
	"sync"

	"admissions_crm_backend/platform/logger"
)

// InMemoryBus is a process-local Bus implementation. Async publishes run each
// handler on its own goroutine; handler errors and panics are logged, never
// propagated to the publisher.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the given event name.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event to all handlers asynchronously. The publisher's
// context is not reused: handlers outlive the request that published the event.
func (b *InMemoryBus) Publish(_ context.Context, event Event) {
	for _, h := range b.snapshot(event.EventName()) {
		handler := h
		go func() {
			defer b.recoverPanic(event)
			if err := handler.Handle(context.Background(), event); err != nil && b.log != nil {
				b.log.Error("event handler failed", "event", event.EventName(), "error", err)
			}
		}()
	}
}

// PublishSync dispatches the event and waits for all handlers, returning the
// first handler error encountered.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	var firstErr error
	for _, h := range b.snapshot(event.EventName()) {
		if err := h.Handle(ctx, event); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if b.log != nil {
				b.log.Error("event handler failed", "event", event.EventName(), "error", err)
			}
		}
	}
	return firstErr
}

func (b *InMemoryBus) snapshot(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	registered := b.handlers[eventName]
	out := make([]Handler, len(registered))
	copy(out, registered)
	return out
}

func (b *InMemoryBus) recoverPanic(event Event) {
	if r := recover(); r != nil && b.log != nil {
		b.log.Error("event handler panicked", "event", event.EventName(), "panic", r)
	}
}

var _ Bus = (*InMemoryBus)(nil)
