package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/rai/order-events-go/internal/platform/sqlite"
	"github.com/rai/order-events-go/modules/orders/domain"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db      *sql.DB
	txScope *sqlite.TxScope
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, txScope: sqlite.NewTxScope(db)}
}

// Save upserts an order and replaces its items.
// It uses an existing transaction if available, otherwise creates a new one.
func (r *SQLiteRepository) Save(ctx context.Context, order *domain.Order) error {
	if tx, ok := sqlite.TxFromContext(ctx); ok {
		return r.saveWithTx(ctx, tx, order)
	}

	err := r.txScope.Execute(ctx, func(ctx context.Context) error {
		tx, _ := sqlite.TxFromContext(ctx)
		return r.saveWithTx(ctx, tx, order)
	})
	if err != nil {
		return errors.Wrap(err, "save order")
	}
	return nil
}

func (r *SQLiteRepository) saveWithTx(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	rec := toRecord(order)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, status, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			customer_id = excluded.customer_id,
			status      = excluded.status,
			created_at  = excluded.created_at`,
		rec.ID, rec.CustomerID, rec.Status, rec.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return errors.Wrap(err, "upsert order")
	}

	// Delete existing items first (handles item changes on update)
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, rec.ID); err != nil {
		return errors.Wrap(err, "delete existing items")
	}

	for i, item := range rec.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, item_index, product_id, quantity, price_amount, price_currency)
			VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, i, item.ProductID, item.Quantity, item.Price.Amount.String(), item.Price.Currency,
		); err != nil {
			return errors.Wrapf(err, "insert item %d", i)
		}
	}
	return nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	q := sqlite.QuerierFromContext(ctx, r.db)

	row := q.QueryRowContext(ctx,
		`SELECT id, customer_id, status, created_at FROM orders WHERE id = ?`, id.String())
	rec, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read order")
	}

	if rec.Items, err = r.readItems(ctx, q, rec.ID); err != nil {
		return nil, err
	}
	return rec.toOrder()
}

// FindByCustomerID returns the customer's orders, oldest first.
func (r *SQLiteRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*domain.Order, error) {
	q := sqlite.QuerierFromContext(ctx, r.db)

	recs, err := r.queryOrders(ctx, q, customerID)
	if err != nil {
		return nil, err
	}

	// Items are read after the order cursor is closed: the pool holds one connection.
	orders := make([]*domain.Order, 0, len(recs))
	for _, rec := range recs {
		if rec.Items, err = r.readItems(ctx, q, rec.ID); err != nil {
			return nil, err
		}
		order, err := rec.toOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *SQLiteRepository) queryOrders(ctx context.Context, q sqlite.Querier, customerID string) ([]orderRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, customer_id, status, created_at
		FROM orders
		WHERE customer_id = ?
		ORDER BY created_at, id`, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	defer rows.Close()

	var recs []orderRecord
	for rows.Next() {
		rec, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate orders")
	}
	return recs, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id domain.OrderID) error {
	del := func(ctx context.Context) error {
		q := sqlite.QuerierFromContext(ctx, r.db)
		if _, err := q.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id.String()); err != nil {
			return errors.Wrap(err, "delete items")
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id.String()); err != nil {
			return errors.Wrap(err, "delete order")
		}
		return nil
	}

	if _, ok := sqlite.TxFromContext(ctx); ok {
		return del(ctx)
	}
	return r.txScope.Execute(ctx, del)
}

func (r *SQLiteRepository) readItems(ctx context.Context, q sqlite.Querier, orderID string) ([]itemRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT product_id, quantity, price_amount, price_currency
		FROM order_items
		WHERE order_id = ?
		ORDER BY item_index`, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "read order items")
	}
	defer rows.Close()

	var items []itemRecord
	for rows.Next() {
		var (
			item   itemRecord
			amount string
		)
		if err := rows.Scan(&item.ProductID, &item.Quantity, &amount, &item.Price.Currency); err != nil {
			return nil, errors.Wrap(err, "scan order item")
		}
		if item.Price.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, errors.Wrapf(err, "parse amount %q", amount)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate order items")
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (orderRecord, error) {
	var (
		rec       orderRecord
		createdAt string
	)
	if err := s.Scan(&rec.ID, &rec.CustomerID, &rec.Status, &createdAt); err != nil {
		return orderRecord{}, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return orderRecord{}, errors.Wrapf(err, "parse created_at %q", createdAt)
	}
	rec.CreatedAt = t
	return rec, nil
}

var _ domain.OrderRepository = (*SQLiteRepository)(nil)
