// Package sqlite provides SQLite database initialization and transaction scoping.
// It uses the pure Go driver, so no C toolchain is required.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Config holds SQLite connection configuration.
type Config struct {
	Path string `default:"orders.db" usage:"SQLite database file (:memory: for a private in-memory db)"`
}

// Open opens the database and applies the schema.
// The caller is responsible for closing the returned handle.
//
// SQLite allows one writer at a time, and an in-memory database exists per
// connection, so the pool is pinned to a single connection.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	path := cfg.Path
	if path == "" {
		path = MemoryPath
	}

	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS orders (
    id          TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL,
    status      TEXT NOT NULL,
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at);

CREATE TABLE IF NOT EXISTS order_items (
    order_id       TEXT    NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    item_index     INTEGER NOT NULL,
    product_id     TEXT    NOT NULL,
    quantity       INTEGER NOT NULL,
    price_amount   TEXT    NOT NULL,
    price_currency TEXT    NOT NULL,
    PRIMARY KEY (order_id, item_index)
);
`

// Migrate creates the order tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "apply schema")
	}
	return nil
}
