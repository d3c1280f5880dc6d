package service

import (
	"context"

	"github.com/cloo-solutions/techwiki/internal/domain"
)

// SeedArticleRepository is the article store surface used inside a seed transaction.
type SeedArticleRepository interface {
	Create(ctx context.Context, a *domain.Article) error
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	DeleteAll(ctx context.Context) error
}

// SeedCategoryRepository is the category store surface used inside a seed transaction.
type SeedCategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	RecomputeCount(ctx context.Context, c *domain.Category) error
	DeleteAll(ctx context.Context) error
}

// TxRepositories provides transaction-bound repositories.
type TxRepositories interface {
	Articles() SeedArticleRepository
	Categories() SeedCategoryRepository
	// Lock serializes transactions that use the same key.
	Lock(ctx context.Context, key string) error
}

// TxRunner executes a function within a transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
