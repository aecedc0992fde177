package messaging_test

import (
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/order-events-go/internal/platform/kafka"
	"github.com/rai/order-events-go/modules/orders/infrastructure/messaging"
	"github.com/rai/order-events-go/modules/shared/events"
	"github.com/rai/order-events-go/modules/shared/events/contracts"
	"github.com/rai/order-events-go/modules/shared/types"
)

func orderCreated() contracts.OrderCreatedEvent {
	price := types.MustNewMoney(decimal.RequireFromString("9.99"), "EUR")
	return contracts.OrderCreatedEvent{
		BaseEvent: events.BaseEvent{
			ID:          "evt-1",
			Name:        contracts.OrderCreatedEventName,
			Version:     1,
			Timestamp:   time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
			AggregateId: "order-1",
		},
		OrderID:     "order-1",
		CustomerID:  "c1",
		TotalAmount: types.MustNewMoney(decimal.RequireFromString("19.98"), "EUR"),
		Items: []contracts.OrderItem{
			{ProductID: "p1", Quantity: 2, Price: price},
		},
	}
}

func TestNewRouter(t *testing.T) {
	r := messaging.NewRouter()

	assert.Equal(t, messaging.TopicOrderCreated, r.TopicFor(contracts.OrderCreatedEventName))
	for _, name := range []string{"OrderConfirmed", "OrderShipped", "OrderCancelled", "Anything"} {
		assert.Equal(t, messaging.TopicOrderEvents, r.TopicFor(name), name)
	}
	assert.Equal(t, []string{messaging.TopicOrderCreated, messaging.TopicOrderEvents}, r.Topics())
}

func TestCodec_OrderCreatedWireFormat(t *testing.T) {
	b, err := messaging.NewCodec().Marshal(orderCreated())
	require.NoError(t, err)

	assert.Equal(t,
		`{"eventName":"OrderCreated","eventVersion":1,"occurredOn":"2024-05-06T07:08:09.000Z",`+
			`"data":{"orderId":"order-1","customerId":"c1","totalAmount":{"amount":19.98,"currency":"EUR"},`+
			`"items":[{"productId":"p1","quantity":2,"price":{"amount":9.99,"currency":"EUR"}}]}}`,
		string(b),
	)
}

func TestCodec_OrderCreatedRoundTrip(t *testing.T) {
	c := messaging.NewCodec()
	want := orderCreated()

	for name, event := range map[string]events.Event{
		"value":   want,
		"pointer": &want,
	} {
		t.Run(name, func(t *testing.T) {
			b, err := c.Marshal(event)
			require.NoError(t, err)

			got, err := c.Unmarshal(b, want.ID, want.AggregateId)
			require.NoError(t, err)

			evt, ok := got.(contracts.OrderCreatedEvent)
			require.True(t, ok, "got %T", got)
			assert.Equal(t, want.BaseEvent, evt.BaseEvent)
			assert.Equal(t, "order-1", evt.OrderID)
			assert.Equal(t, "c1", evt.CustomerID)
			assert.True(t, evt.TotalAmount.Equals(want.TotalAmount), evt.TotalAmount.String())
			require.Len(t, evt.Items, 1)
			assert.Equal(t, "p1", evt.Items[0].ProductID)
			assert.Equal(t, 2, evt.Items[0].Quantity)
			assert.True(t, evt.Items[0].Price.Equals(want.Items[0].Price))
		})
	}
}

func TestCodec_OrderCreatedAggregateFallsBackToOrderID(t *testing.T) {
	c := messaging.NewCodec()
	b, err := c.Marshal(orderCreated())
	require.NoError(t, err)

	got, err := c.Unmarshal(b, "", "")
	require.NoError(t, err)
	assert.Equal(t, "order-1", got.AggregateID())
}

func TestCodec_OrderCreatedRejectsWrongType(t *testing.T) {
	wrong := events.NewBaseEvent(contracts.OrderCreatedEventName, "order-1")
	_, err := messaging.NewCodec().Marshal(wrong)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kafka.ErrUnsupportedEvent))
}

func TestCodec_OrderCreatedInvalidData(t *testing.T) {
	raw := `{"eventName":"OrderCreated","eventVersion":1,"occurredOn":"2024-05-06T07:08:09.000Z",` +
		`"data":{"orderId":"order-1","totalAmount":{"amount":-1,"currency":"EUR"}}}`
	_, err := messaging.NewCodec().Unmarshal([]byte(raw), "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrValidation))
}
