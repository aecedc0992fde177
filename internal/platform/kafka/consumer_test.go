package kafka_test

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rai/order-events-go/internal/platform/eventbus"
	"github.com/rai/order-events-go/internal/platform/kafka"
	"github.com/rai/order-events-go/modules/shared/events"
)

// fakeReader serves queued messages, then blocks until ctx is cancelled.
type fakeReader struct {
	queue     []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
	fetchErr  error
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.queue) == 0 {
		if r.fetchErr != nil {
			return kafkago.Message{}, r.fetchErr
		}
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func encodedMessage(t *testing.T, topic string, event events.Event) kafkago.Message {
	t.Helper()
	value, err := pingCodec().Marshal(event)
	require.NoError(t, err)
	return kafkago.Message{
		Topic: topic,
		Key:   []byte(event.AggregateID()),
		Value: value,
		Headers: []kafkago.Header{
			{Key: kafka.HeaderEventID, Value: []byte(event.EventID())},
			{Key: kafka.HeaderEventName, Value: []byte(event.EventName())},
		},
	}
}

func TestConsumer_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, logs := observer.New(zap.DebugLevel)
	registry := eventbus.NewEventHandlerRegistry(nil)

	var got []events.Event
	require.NoError(t, registry.Subscribe("Ping", events.HandlerFunc(func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})))
	require.NoError(t, registry.Subscribe("Ping", events.HandlerFunc(func(context.Context, events.Event) error {
		return errors.New("handler exploded")
	})))

	reader := &fakeReader{
		cancel: cancel,
		queue: []kafkago.Message{
			encodedMessage(t, "pings", pingEvent{BaseEvent: fixedBase("Ping"), Note: "hi"}),
			encodedMessage(t, "fallback", fixedBase("Nobody")),
			{Topic: "pings", Value: []byte("garbage")},
		},
	}

	c := kafka.NewConsumer(reader, pingCodec(), registry, zap.New(core), nil)
	require.NoError(t, c.Run(ctx))

	require.Len(t, got, 1)
	ping, ok := got[0].(pingEvent)
	require.True(t, ok, "got %T", got[0])
	assert.Equal(t, "hi", ping.Note)
	assert.Equal(t, "evt-1", ping.EventID())
	assert.Equal(t, "agg-1", ping.AggregateID())

	// Every message is committed, including failed and undecodable ones.
	assert.Len(t, reader.committed, 3)

	assert.Equal(t, 1, logs.FilterMessage("Event handler failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Unknown event type").Len())
	assert.Equal(t, 1, logs.FilterMessage("Skipping undecodable message").Len())
}

func TestConsumer_UnhandledEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, logs := observer.New(zap.DebugLevel)
	reader := &fakeReader{
		cancel: cancel,
		queue: []kafkago.Message{
			encodedMessage(t, "pings", pingEvent{BaseEvent: fixedBase("Ping"), Note: "hi"}),
			encodedMessage(t, "fallback", fixedBase("Nobody")),
		},
	}

	c := kafka.NewConsumer(reader, pingCodec(), eventbus.NewEventHandlerRegistry(nil), zap.New(core), nil)
	require.NoError(t, c.Run(ctx))

	assert.Len(t, reader.committed, 2)

	noHandlers := logs.FilterMessage("No handlers for event").All()
	require.Len(t, noHandlers, 1)
	assert.Equal(t, "Ping", noHandlers[0].ContextMap()["event_name"])

	unknown := logs.FilterMessage("Unknown event type").All()
	require.Len(t, unknown, 1)
	assert.Equal(t, "Nobody", unknown[0].ContextMap()["event_name"])
}

func TestConsumer_FetchError(t *testing.T) {
	cause := errors.New("connection reset")
	reader := &fakeReader{fetchErr: cause}

	c := kafka.NewConsumer(reader, kafka.NewCodec(), eventbus.NewEventHandlerRegistry(nil), nil, nil)
	err := c.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
}
