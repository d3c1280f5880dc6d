//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func setupPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	pc := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { _ = pc.Terminate(context.Background()) })

	pool := testutil.NewTestPool(ctx, t, pc)
	t.Cleanup(pool.Close)
	return pool
}

type articleOpt func(a *domain.Article)

func insertArticle(ctx context.Context, t *testing.T, repo *ArticleRepository, opts ...articleOpt) *domain.Article {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	a := &domain.Article{
		ID:          uuid.NewString(),
		Title:       "RFC timeout on SAP gateway",
		Content:     "Restart the gateway service and raise the timeout.",
		Application: "SAP",
		ErrorCode:   "RFC_ERROR_SYSTEM_FAILURE",
		Category:    domain.CategoryError,
		Tags:        []string{"sap", "rfc"},
		Severity:    domain.SeverityHigh,
		Status:      domain.StatusPublished,
		Author:      "Alice",
		Versions:    []domain.VersionSnapshot{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(a)
	}
	require.NoError(t, repo.Create(ctx, a))
	return a
}
