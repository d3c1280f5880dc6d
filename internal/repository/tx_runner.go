package repository

import (
	"context"
	"fmt"

	"github.com/cloo-solutions/techwiki/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner hands out repositories bound to one read-committed transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// WithTx commits when fn returns nil and rolls back otherwise.
func (r *TxRunner) WithTx(ctx context.Context, fn func(repos service.TxRepositories) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(&txRepos{tx: tx})
	})
}

type txRepos struct {
	tx pgx.Tx
}

func (r *txRepos) Articles() service.SeedArticleRepository {
	return NewArticleRepositoryWithTx(r.tx)
}

func (r *txRepos) Categories() service.SeedCategoryRepository {
	return NewCategoryRepositoryWithTx(r.tx)
}

// Lock takes a transaction-scoped advisory lock named by key; it is released
// on commit or rollback.
func (r *txRepos) Lock(ctx context.Context, key string) error {
	if _, err := r.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "techwiki:"+key); err != nil {
		return fmt.Errorf("advisory lock %q: %w", key, err)
	}
	return nil
}
