package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"admissions_crm_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncRunsAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var mu sync.Mutex
	calls := 0
	handler := HandlerFunc(func(_ context.Context, _ Event) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return nil
	})

	bus.Subscribe("test.event", handler)
	bus.Subscribe("test.event", handler)

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "test.event"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("handler calls = %d, want 2", calls)
	}
}

func TestPublishSyncReturnsHandlerError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	wantErr := errors.New("handler broke")
	bus.Subscribe("test.event", HandlerFunc(func(_ context.Context, _ Event) error {
		return wantErr
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "test.event"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestPublishToUnknownEventIsNoOp(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	// Must not panic with no subscribers.
	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "nobody.listens"})
}
