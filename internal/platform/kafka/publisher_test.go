package kafka_test

import (
	"context"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rai/order-events-go/internal/platform/kafka"
	"github.com/rai/order-events-go/internal/platform/metrics"
	"github.com/rai/order-events-go/modules/shared/events"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafkago.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func headerMap(msg kafkago.Message) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func newTestPublisher(t *testing.T, w kafka.Writer) (*kafka.Publisher, *metrics.Messaging) {
	t.Helper()
	m := metrics.NewMessaging(prometheus.NewRegistry())
	router := kafka.NewRouter("fallback", map[string]string{"Ping": "pings"})
	return kafka.NewPublisher(w, router, pingCodec(), kafka.PublisherOptions{
		Logger:  zaptest.NewLogger(t),
		Metrics: m,
	}), m
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p, m := newTestPublisher(t, w)

	require.NoError(t, p.Publish(context.Background(), pingEvent{BaseEvent: fixedBase("Ping"), Note: "hi"}))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "pings", msg.Topic)
	assert.Equal(t, "agg-1", string(msg.Key))
	assert.Equal(t,
		`{"eventName":"Ping","eventVersion":1,"occurredOn":"2024-03-01T10:20:30.123Z","data":{"note":"hi"}}`,
		string(msg.Value),
	)
	assert.Equal(t, map[string]string{
		kafka.HeaderEventID:      "evt-1",
		kafka.HeaderEventName:    "Ping",
		kafka.HeaderEventVersion: "1",
	}, headerMap(msg))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Published.WithLabelValues("pings", "Ping", metrics.StatusOK)))
}

func TestPublisher_PublishUsesFallbackTopic(t *testing.T) {
	w := &fakeWriter{}
	p, _ := newTestPublisher(t, w)

	require.NoError(t, p.Publish(context.Background(), fixedBase("Unrouted")))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "fallback", w.msgs[0].Topic)
}

func TestPublisher_WriteFailure(t *testing.T) {
	cause := errors.New("broker unavailable")
	p, m := newTestPublisher(t, &fakeWriter{err: cause})

	err := p.Publish(context.Background(), pingEvent{BaseEvent: fixedBase("Ping")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, events.ErrPublication))
	assert.True(t, errors.Is(err, cause))

	var pubErr *events.PublicationError
	require.True(t, errors.As(err, &pubErr))
	assert.Equal(t, "Ping", pubErr.EventName)
	assert.Equal(t, "pings", pubErr.Topic)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Published.WithLabelValues("pings", "Ping", metrics.StatusError)))
}

func TestPublisher_EncodeFailure(t *testing.T) {
	w := &fakeWriter{}
	p, _ := newTestPublisher(t, w)

	// Registered name but wrong concrete type.
	err := p.Publish(context.Background(), fixedBase("Ping"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, events.ErrPublication))
	assert.True(t, errors.Is(err, kafka.ErrUnsupportedEvent))
	assert.Empty(t, w.msgs)
}

func TestPublisher_PublishAll(t *testing.T) {
	w := &fakeWriter{}
	p, _ := newTestPublisher(t, w)

	a := fixedBase("Ping")
	b := fixedBase("Pong")
	b.ID = "evt-2"
	require.NoError(t, p.PublishAll(context.Background(), []events.Event{pingEvent{BaseEvent: a}, b}))
	require.Len(t, w.msgs, 2)

	topics := []string{w.msgs[0].Topic, w.msgs[1].Topic}
	assert.ElementsMatch(t, []string{"pings", "fallback"}, topics)

	require.NoError(t, p.PublishAll(context.Background(), nil))
	assert.Len(t, w.msgs, 2)
}
