// Package repository provides database helper functions for transaction management
// and statement execution.
package repository

import (
	"context"
	"database/sql"
)

// Executor is implemented by *sql.DB, *sql.Tx, and *sql.Conn.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WithTx executes fn within a database transaction.
// It handles Begin, Commit, and Rollback automatically: any error from fn
// or from Commit leaves the transaction rolled back and the connection
// usable for the next call.
func WithTx[T any](ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) (T, error)) (T, error) {
	var zero T

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, err
	}
	defer tx.Rollback()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, err
	}

	return result, nil
}

// ExecAll runs each statement in order on e, stopping at the first error.
func ExecAll(ctx context.Context, e Executor, statements ...string) error {
	for _, stmt := range statements {
		if _, err := e.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
