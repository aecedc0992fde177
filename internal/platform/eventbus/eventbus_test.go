package eventbus_test

import (
	"context"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rai/order-events-go/internal/platform/eventbus"
	"github.com/rai/order-events-go/modules/shared/events"
)

func TestInMemoryEventBus_PublishLogsAndDispatches(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := eventbus.New(zap.New(core))

	var got []events.Event
	require.NoError(t, bus.Subscribe("OrderCreated", events.HandlerFunc(func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})))

	event := events.NewBaseEvent("OrderCreated", "order-1")
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, got, 1)
	assert.Equal(t, event.EventID(), got[0].EventID())

	entries := logs.FilterMessage("Event published").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "OrderCreated", fields["event_name"])
	assert.Equal(t, int64(1), fields["event_version"])
	assert.Equal(t, "order-1", fields["aggregate_id"])
}

func TestInMemoryEventBus_HandlerErrorDoesNotFail(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := eventbus.New(zap.New(core))

	secondCalled := false
	_ = bus.Subscribe("X", events.HandlerFunc(func(context.Context, events.Event) error {
		return errors.New("boom")
	}))
	_ = bus.Subscribe("X", events.HandlerFunc(func(context.Context, events.Event) error {
		secondCalled = true
		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), events.NewBaseEvent("X", "1")))
	assert.True(t, secondCalled)
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestInMemoryEventBus_PublishAll(t *testing.T) {
	bus := eventbus.New(nil)

	var mu sync.Mutex
	count := 0
	_ = bus.Subscribe("X", events.HandlerFunc(func(context.Context, events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		return nil
	}))

	evts := []events.Event{
		events.NewBaseEvent("X", "1"),
		events.NewBaseEvent("X", "2"),
		events.NewBaseEvent("Unrouted", "3"),
	}
	require.NoError(t, bus.PublishAll(context.Background(), evts))
	assert.Equal(t, 2, count)
}

func TestEventHandlerRegistry_HandlersForReturnsCopy(t *testing.T) {
	reg := eventbus.NewEventHandlerRegistry(nil)
	h := events.HandlerFunc(func(context.Context, events.Event) error { return nil })
	require.NoError(t, reg.Subscribe("X", h))

	handlers := reg.HandlersFor("X")
	require.Len(t, handlers, 1)
	handlers[0] = nil

	assert.NotNil(t, reg.HandlersFor("X")[0])
	assert.Empty(t, reg.HandlersFor("Y"))
}

func TestNewWithRegistry_SharesSubscriptions(t *testing.T) {
	reg := eventbus.NewEventHandlerRegistry(nil)
	bus := eventbus.NewWithRegistry(reg, nil)

	called := 0
	require.NoError(t, reg.Subscribe("X", events.HandlerFunc(func(context.Context, events.Event) error {
		called++
		return nil
	})))

	require.NoError(t, bus.Publish(context.Background(), events.NewBaseEvent("X", "1")))
	assert.Equal(t, 1, called)
}
