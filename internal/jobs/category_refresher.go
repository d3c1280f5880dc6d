package jobs

import (
	"context"
	"time"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/logger"
)

const refreshTimeout = 30 * time.Second

// CountRecomputer refreshes cached category counts.
type CountRecomputer interface {
	RecomputeCounts(ctx context.Context) ([]*domain.Category, error)
}

// CategoryCountRefresher is a Task that keeps cached category article counts
// from drifting too far between manual refreshes.
type CategoryCountRefresher struct {
	categories CountRecomputer
}

func NewCategoryCountRefresher(categories CountRecomputer) *CategoryCountRefresher {
	return &CategoryCountRefresher{categories: categories}
}

func (r *CategoryCountRefresher) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	categories, err := r.categories.RecomputeCounts(ctx)
	if err != nil {
		return err
	}
	logger.Debug("category counts refreshed", "categories", len(categories))
	return nil
}
