package commands_test

import (
	"context"
	"sync"

	"github.com/rai/order-events-go/modules/orders/domain"
	"github.com/rai/order-events-go/modules/shared/events"
)

// --- Mocks ---

type mockOrderRepository struct {
	saveFn     func(ctx context.Context, order *domain.Order) error
	findByIDFn func(ctx context.Context, id domain.OrderID) (*domain.Order, error)
}

func (m *mockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, order)
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	if m.findByIDFn == nil {
		return nil, nil
	}
	return m.findByIDFn(ctx, id)
}

func (m *mockOrderRepository) FindByCustomerID(context.Context, string) ([]*domain.Order, error) {
	return nil, nil
}

func (m *mockOrderRepository) Delete(context.Context, domain.OrderID) error {
	return nil
}

type mockPublisher struct {
	mu        sync.Mutex
	published []events.Event
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	return m.PublishAll(ctx, []events.Event{event})
}

func (m *mockPublisher) PublishAll(_ context.Context, evts []events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockTransactionScope struct {
	calls int
}

func (m *mockTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}
