package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/metrics"
	"github.com/cloo-solutions/techwiki/internal/telemetry"
)

// CategoryRepositoryInterface defines the repository interface for category persistence
type CategoryRepositoryInterface interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	RecomputeCount(ctx context.Context, c *domain.Category) error
	Statistics(ctx context.Context) ([]domain.CategoryStat, error)
}

// CategoryService manages categories and their cached article counts.
type CategoryService struct {
	repo    CategoryRepositoryInterface
	uuidGen UUIDGenerator
}

func NewCategoryService(repo CategoryRepositoryInterface) *CategoryService {
	return NewCategoryServiceWithUUIDGen(repo, &DefaultUUIDGenerator{})
}

func NewCategoryServiceWithUUIDGen(repo CategoryRepositoryInterface, uuidGen UUIDGenerator) *CategoryService {
	return &CategoryService{repo: repo, uuidGen: uuidGen}
}

type CreateCategoryInput struct {
	Name        string
	Description string
	Color       string
	Icon        string
}

// List returns categories ordered by name. Counts may be stale.
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

// Create stores a category. Names are unique.
func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "CategoryService.Create", telemetry.SpanAttributes{
		Category:  input.Name,
		Operation: "create",
	})
	defer span.End()

	now := time.Now().UTC()
	c := &domain.Category{
		ID:          s.uuidGen.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Icon:        input.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	c.Normalize()

	if err := domain.ValidateCategory(c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RecomputeCounts refreshes every category's published article count, one
// store round trip per category. The first failure stops the run; categories
// already refreshed keep their new count.
func (s *CategoryService) RecomputeCounts(ctx context.Context) ([]*domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "CategoryService.RecomputeCounts", telemetry.SpanAttributes{
		Operation: "recompute_counts",
	})
	defer span.End()

	timer := metrics.NewTimer()
	categories, err := s.recompute(ctx)
	metrics.ObserveCategoryRefresh(err, timer.Seconds())
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) recompute(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, c := range categories {
		if err := s.repo.RecomputeCount(ctx, c); err != nil {
			return nil, fmt.Errorf("recompute count for %q: %w", c.Name, err)
		}
	}
	return categories, nil
}

// Statistics aggregates published articles by category at call time.
func (s *CategoryService) Statistics(ctx context.Context) ([]domain.CategoryStat, error) {
	ctx, span := telemetry.StartSpan(ctx, "CategoryService.Statistics", telemetry.SpanAttributes{
		Operation: "statistics",
	})
	defer span.End()

	return s.repo.Statistics(ctx)
}
