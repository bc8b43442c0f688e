package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the connection handle passed into every repository call. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so a service can run the same
// repository methods inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner executes a function inside a single database transaction. The
// entity update and its audit insert always share one transaction so a
// failure of either aborts both.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx Querier) error) error
}

type poolTxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner wraps a pgx pool as a TxRunner.
func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return &poolTxRunner{pool: pool}
}

func (r *poolTxRunner) InTx(ctx context.Context, fn func(tx Querier) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(tx)
	})
}
