package sqlite

import (
	"context"
	"database/sql"
)

// txKey is the context key for storing SQLite transactions.
type txKey struct{}

// withTx embeds a transaction in the context.
func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext extracts a transaction from context.
// Returns (nil, false) if no transaction is present.
func TxFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// Querier is the subset of *sql.DB and *sql.Tx used by repositories.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// QuerierFromContext returns the active transaction, or db when there is none.
func QuerierFromContext(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}
