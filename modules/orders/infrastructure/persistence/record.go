// Package persistence implements repository interfaces for orders.
package persistence

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/rai/order-events-go/modules/orders/domain"
	"github.com/rai/order-events-go/modules/shared/types"
)

// orderRecord is the flattened, storage-side shape of an order.
// Money is decomposed into amount and currency.
type orderRecord struct {
	ID         string
	CustomerID string
	Items      []itemRecord
	Status     string
	CreatedAt  time.Time
}

type itemRecord struct {
	ProductID string
	Quantity  int
	Price     moneyRecord
}

type moneyRecord struct {
	Amount   decimal.Decimal
	Currency string
}

func toRecord(order *domain.Order) orderRecord {
	items := order.Items()
	rec := orderRecord{
		ID:         order.ID().String(),
		CustomerID: order.CustomerID(),
		Items:      make([]itemRecord, len(items)),
		Status:     order.Status().String(),
		CreatedAt:  order.CreatedAt(),
	}
	for i, item := range items {
		rec.Items[i] = itemRecord{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price: moneyRecord{
				Amount:   item.Price.Amount(),
				Currency: item.Price.Currency(),
			},
		}
	}
	return rec
}

// toOrder rehydrates a fresh aggregate; its event buffer is always empty.
func (rec orderRecord) toOrder() (*domain.Order, error) {
	id, err := domain.ParseOrderID(rec.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse order id")
	}

	status, err := domain.ParseStatus(rec.Status)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, len(rec.Items))
	for i, item := range rec.Items {
		price, err := types.NewMoney(item.Price.Amount, item.Price.Currency)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d price", i)
		}
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		}
	}

	order, err := domain.Reconstitute(id, rec.CustomerID, items, status, rec.CreatedAt)
	if err != nil {
		return nil, errors.Wrapf(err, "reconstitute order %s", rec.ID)
	}
	order.ClearEvents()
	return order, nil
}
