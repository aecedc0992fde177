package sqlite

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
)

// ErrNestedTransaction is returned when attempting to start a transaction
// inside an already-active transaction scope.
var ErrNestedTransaction = errors.New("nested transaction detected: sqlite does not support nested transactions")

// TxScope manages the lifecycle of a read-write transaction.
type TxScope struct {
	db *sql.DB
}

// NewTxScope creates a new transaction scope over db.
func NewTxScope(db *sql.DB) *TxScope {
	return &TxScope{db: db}
}

// Execute runs fn within a transaction.
// The transaction is committed if fn returns nil, rolled back otherwise.
// The ctx passed to fn carries the transaction for repositories to access via TxFromContext.
func (s *TxScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return ErrNestedTransaction
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}
