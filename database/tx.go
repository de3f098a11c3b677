package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// DBTX is what the stores need from a handle. Both *sqlx.DB and *sqlx.Tx
// satisfy it.
type DBTX interface {
	sqlx.ExtContext
}

// WithTx begins a transaction, runs fn with it, and commits on success.
// It rolls back if fn returns an error or panics; panics are rethrown.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
