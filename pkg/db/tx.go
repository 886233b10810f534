package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ahwlsqja/ts-pass-claims/internal/repository/db"
)

// TxRunner manages database transactions with sqlc Queries.
// The claim gateway uses this to keep the read, uniqueness check and
// write of a registration inside one transaction.
type TxRunner struct {
	database *sql.DB
}

// NewTxRunner creates a new TxRunner instance.
func NewTxRunner(database *sql.DB) *TxRunner {
	return &TxRunner{database: database}
}

// WithTx executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
func (r *TxRunner) WithTx(ctx context.Context, fn func(q *db.Queries) error) error {
	_, err := WithTxResult(ctx, r, func(q *db.Queries) (struct{}, error) {
		return struct{}{}, fn(q)
	})
	return err
}

// WithTxResult executes the given function within a database transaction
// and returns a result value.
//
// Usage example:
//
//	res, err := WithTxResult(ctx, txRunner, func(q *db.Queries) (*db.Claim, error) {
//	    row, err := q.GetClaimByWallet(ctx, wallet)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &row, nil
//	})
func WithTxResult[T any](ctx context.Context, r *TxRunner, fn func(q *db.Queries) (T, error)) (T, error) {
	var result T

	tx, err := r.database.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin transaction: %w", err)
	}

	q := db.New(tx)

	result, err = fn(q)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return result, fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return result, err
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("commit transaction: %w", err)
	}

	return result, nil
}

// Queries returns a non-transactional Queries instance.
// Use this for read-only operations that don't require transactions.
func (r *TxRunner) Queries() *db.Queries {
	return db.New(r.database)
}
