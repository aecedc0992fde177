package persistence

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/rai/order-events-go/modules/orders/domain"
)

// InMemoryRepository implements OrderRepository using in-memory storage.
// It keeps flattened records, never live aggregates, so callers cannot
// mutate stored state or leak buffered events through it.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]orderRecord
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		orders: make(map[string]orderRecord),
	}
}

// Save upserts the order. Concurrent saves of the same id are last-write-wins.
func (r *InMemoryRepository) Save(ctx context.Context, order *domain.Order) error {
	rec := toRecord(order)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[rec.ID] = rec
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	r.mu.RLock()
	rec, exists := r.orders[id.String()]
	r.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	return rec.toOrder()
}

// FindByCustomerID returns the customer's orders, oldest first.
func (r *InMemoryRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*domain.Order, error) {
	r.mu.RLock()
	var recs []orderRecord
	for _, rec := range r.orders {
		if rec.CustomerID == customerID {
			recs = append(recs, rec)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(recs, func(a, b orderRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	orders := make([]*domain.Order, 0, len(recs))
	for _, rec := range recs {
		order, err := rec.toOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id domain.OrderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id.String())
	return nil
}

var _ domain.OrderRepository = (*InMemoryRepository)(nil)
