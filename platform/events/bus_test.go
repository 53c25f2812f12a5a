package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncDeliversToAllSubscribers(t *testing.T) {
	bus := NewInMemoryBus(nil)

	calls := 0
	bus.Subscribe("thing_happened", HandlerFunc(func(_ context.Context, _ Event) error {
		calls++
		return nil
	}))
	bus.Subscribe("thing_happened", HandlerFunc(func(_ context.Context, _ Event) error {
		calls++
		return nil
	}))
	bus.Subscribe("other_thing", HandlerFunc(func(_ context.Context, _ Event) error {
		t.Error("handler for unrelated event should not fire")
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing_happened"}); err != nil {
		t.Fatalf("PublishSync returned error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 handler calls, got %d", calls)
	}
}

func TestPublishSyncReturnsFirstHandlerError(t *testing.T) {
	bus := NewInMemoryBus(nil)
	wantErr := errors.New("boom")

	bus.Subscribe("thing_happened", HandlerFunc(func(_ context.Context, _ Event) error {
		return wantErr
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing_happened"})
	if !errors.Is(err, wantErr) {
		t.Errorf("PublishSync error = %v, want %v", err, wantErr)
	}
}

func TestPublishIsAsynchronous(t *testing.T) {
	bus := NewInMemoryBus(nil)
	done := make(chan struct{})

	bus.Subscribe("thing_happened", HandlerFunc(func(_ context.Context, _ Event) error {
		close(done)
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "thing_happened"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestPublishWithNoSubscribersIsNoOp(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "nobody_cares"})
	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "nobody_cares"}); err != nil {
		t.Fatalf("PublishSync returned error: %v", err)
	}
}
