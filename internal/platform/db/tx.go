package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const txKey contextKey = "db_tx"

// TxFromContext retrieves the transaction placed in ctx by InTx, or nil.
// Repositories check this before falling back to the shared pool, so a
// service can compose several repository calls into one atomic write.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}

// WithTx returns a child context carrying tx.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// Atomic runs fn with transactional semantics. Services depend on this type
// rather than on the pool itself; tests substitute a pass-through.
type Atomic func(ctx context.Context, fn func(ctx context.Context) error) error

// PoolAtomic binds InTx to pool.
func PoolAtomic(pool *pgxpool.Pool) Atomic {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return InTx(ctx, pool, fn)
	}
}

// InTx runs fn inside a single transaction. The transaction is injected into
// the context handed to fn and committed when fn returns nil; any error (or
// panic) rolls the whole transaction back.
func InTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
