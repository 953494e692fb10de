package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", "agg-1"),
		Data:            "test data",
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
	block      chan struct{}
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.block != nil {
		<-h.block
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler)

	event := newTestEvent("OrderPlaced")
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_Publish_MultipleHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler1 := newTestHandler("OrderPlaced")
	handler2 := newTestHandler("OrderPlaced")
	wildcard := newTestHandler()
	other := newTestHandler("MessageReceived")
	bus.Subscribe(handler1)
	bus.Subscribe(handler2)
	bus.Subscribe(wildcard)
	bus.Subscribe(other)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced"), newTestEvent("OrderPlaced")))

	assert.Len(t, handler1.getHandled(), 2)
	assert.Len(t, handler2.getHandled(), 2)
	assert.Len(t, wildcard.getHandled(), 2)
	assert.Empty(t, other.getHandled())
}

func TestInMemoryEventBus_Publish_HandlerErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newTestHandler("OrderPlaced")
	failing.err = errors.New("smtp down")
	next := newTestHandler("OrderPlaced")
	bus.Subscribe(failing)
	bus.Subscribe(next)

	err := bus.Publish(context.Background(), newTestEvent("OrderPlaced"))

	require.NoError(t, err)
	assert.Len(t, next.getHandled(), 1, "later handlers still run")
	require.Equal(t, 1, logs.FilterMessage("handler failed to process event").Len())
	assert.Equal(t, "agg-1", logs.All()[0].ContextMap()["aggregate_id"])
}

func TestInMemoryEventBus_Publish_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	handler := newTestHandler("OrderPlaced")
	handler.panicWith = "boom"
	bus.Subscribe(handler)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced"))
	})
	assert.Equal(t, 1, logs.FilterMessage("handler panicked").Len())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced"))

	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced"))

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_AsyncDispatch(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch(time.Second))
	require.NoError(t, bus.Start(context.Background()))

	handler := newTestHandler("OrderPlaced")
	handler.block = make(chan struct{})
	bus.Subscribe(handler)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced")))
	cancel()
	assert.Empty(t, handler.getHandled(), "publish does not wait for handlers")

	close(handler.block)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, bus.Stop(stopCtx))
	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_StopTimesOut(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch(time.Minute))

	handler := newTestHandler("OrderPlaced")
	handler.block = make(chan struct{})
	defer close(handler.block)
	bus.Subscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(ctx), context.DeadlineExceeded)
}
