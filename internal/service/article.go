package service

import (
	"context"
	"time"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/metrics"
	"github.com/cloo-solutions/techwiki/internal/pagination"
	"github.com/cloo-solutions/techwiki/internal/query"
	"github.com/cloo-solutions/techwiki/internal/telemetry"
	"github.com/google/uuid"
)

const (
	// DefaultListLimit is the page size for article listings.
	DefaultListLimit = 50
	// DefaultPopularLimit is the size of the most-viewed list.
	DefaultPopularLimit = 10
)

// ArticleRepositoryInterface defines the repository interface for article persistence
type ArticleRepositoryInterface interface {
	Create(ctx context.Context, a *domain.Article) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	Update(ctx context.Context, a *domain.Article) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (*domain.Article, error)
	IncrementHelpful(ctx context.Context, id string) (int64, error)
	List(ctx context.Context, st query.Statement) ([]*domain.Article, int64, error)
	Popular(ctx context.Context, limit int) ([]*domain.Article, error)
	GetVersions(ctx context.Context, id string) (string, []domain.VersionSnapshot, error)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// ArticleService handles the article lifecycle and its version log.
type ArticleService struct {
	articleRepo ArticleRepositoryInterface
	uuidGen     UUIDGenerator
	now         func() time.Time
}

func NewArticleService(articleRepo ArticleRepositoryInterface) *ArticleService {
	return NewArticleServiceWithUUIDGen(articleRepo, &DefaultUUIDGenerator{})
}

// NewArticleServiceWithUUIDGen creates an ArticleService with a custom UUID generator (for testing)
func NewArticleServiceWithUUIDGen(articleRepo ArticleRepositoryInterface, uuidGen UUIDGenerator) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		uuidGen:     uuidGen,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateArticleInput is a fully formed article draft minus identity and timestamps.
type CreateArticleInput struct {
	Title       string
	Content     string
	Application string
	ErrorCode   string
	Category    domain.ArticleCategory
	Tags        []string
	Severity    domain.Severity
	Status      domain.Status
	Author      string
}

// UpdateArticleInput separates the field patch from the edit control fields.
type UpdateArticleInput struct {
	ID    string
	Patch domain.ArticlePatch
	Edit  domain.EditMetadata
}

// ListArticlesInput carries raw listing parameters.
type ListArticlesInput struct {
	Params query.Params
	Sort   string
	Page   int
	Limit  int
}

// ArticleVersions is the version log of one article.
type ArticleVersions struct {
	Title    string
	Versions []domain.VersionSnapshot
}

// Create validates the draft and stores it with an empty version log.
func (s *ArticleService) Create(ctx context.Context, input CreateArticleInput) (*domain.Article, error) {
	ctx, span := telemetry.StartSpan(ctx, "ArticleService.Create", telemetry.SpanAttributes{
		Category:  string(input.Category),
		Operation: "create",
	})
	defer span.End()

	now := s.now()
	article := &domain.Article{
		ID:          s.uuidGen.NewString(),
		Title:       input.Title,
		Content:     input.Content,
		Application: input.Application,
		ErrorCode:   input.ErrorCode,
		Category:    input.Category,
		Tags:        input.Tags,
		Severity:    input.Severity,
		Status:      input.Status,
		Author:      input.Author,
		Versions:    []domain.VersionSnapshot{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	article.ApplyDefaults()
	article.Normalize()

	if err := domain.ValidateArticle(article); err != nil {
		return nil, err
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		span.SetError(err)
		return nil, err
	}

	metrics.ArticleWritesTotal.WithLabelValues("create").Inc()
	return article, nil
}

// Get returns the full article and records one view.
func (s *ArticleService) Get(ctx context.Context, id string) (*domain.Article, error) {
	ctx, span := telemetry.StartSpan(ctx, "ArticleService.Get", telemetry.SpanAttributes{
		ArticleID: id,
		Operation: "get",
	})
	defer span.End()

	article, err := s.articleRepo.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.ArticleViewsTotal.Inc()
	return article, nil
}

// Update applies a patch, optionally snapshotting the outgoing state first.
// Nothing is written when the patched article fails validation.
func (s *ArticleService) Update(ctx context.Context, input UpdateArticleInput) (*domain.Article, error) {
	ctx, span := telemetry.StartSpan(ctx, "ArticleService.Update", telemetry.SpanAttributes{
		ArticleID: input.ID,
		Operation: "update",
	})
	defer span.End()

	article, err := s.articleRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	article.Edit(input.Patch, input.Edit)

	if err := domain.ValidateArticle(article); err != nil {
		return nil, err
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}

	metrics.ArticleWritesTotal.WithLabelValues("update").Inc()
	if input.Edit.SaveVersion {
		metrics.VersionsSavedTotal.Inc()
	}
	return article, nil
}

// Delete removes the article and its version log.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "ArticleService.Delete", telemetry.SpanAttributes{
		ArticleID: id,
		Operation: "delete",
	})
	defer span.End()

	if err := s.articleRepo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.ArticleWritesTotal.WithLabelValues("delete").Inc()
	return nil
}

// GetVersions returns the title and chronological version log.
func (s *ArticleService) GetVersions(ctx context.Context, id string) (*ArticleVersions, error) {
	ctx, span := telemetry.StartSpan(ctx, "ArticleService.GetVersions", telemetry.SpanAttributes{
		ArticleID: id,
		Operation: "versions",
	})
	defer span.End()

	title, versions, err := s.articleRepo.GetVersions(ctx, id)
	if err != nil {
		return nil, err
	}
	if versions == nil {
		versions = []domain.VersionSnapshot{}
	}
	return &ArticleVersions{Title: title, Versions: versions}, nil
}

// MarkHelpful adds one helpful vote and returns the new total. Repeated calls
// keep counting.
func (s *ArticleService) MarkHelpful(ctx context.Context, id string) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "ArticleService.MarkHelpful", telemetry.SpanAttributes{
		ArticleID: id,
		Operation: "helpful",
	})
	defer span.End()

	helpful, err := s.articleRepo.IncrementHelpful(ctx, id)
	if err != nil {
		return 0, err
	}

	metrics.ArticleHelpfulTotal.Inc()
	return helpful, nil
}

// List returns one page of articles matching the filter, without version logs.
func (s *ArticleService) List(ctx context.Context, input ListArticlesInput) (*pagination.PageResult[*domain.Article], error) {
	ctx, span := telemetry.StartSpan(ctx, "ArticleService.List", telemetry.SpanAttributes{
		Category:  input.Params.Category,
		Operation: "list",
	})
	defer span.End()

	filter, err := query.ParseFilter(input.Params)
	if err != nil {
		return nil, err
	}
	sort, err := query.ParseSort(input.Sort)
	if err != nil {
		return nil, err
	}
	window := pagination.New(input.Page, input.Limit, DefaultListLimit)

	items, total, err := s.articleRepo.List(ctx, query.Build(filter, sort, window))
	if err != nil {
		return nil, err
	}
	return pagination.NewPageResult(items, total, window), nil
}

// Popular returns the most viewed published articles.
func (s *ArticleService) Popular(ctx context.Context, limit int) ([]*domain.Article, error) {
	ctx, span := telemetry.StartSpan(ctx, "ArticleService.Popular", telemetry.SpanAttributes{
		Operation: "popular",
	})
	defer span.End()

	window := pagination.New(1, limit, DefaultPopularLimit)
	return s.articleRepo.Popular(ctx, window.Limit)
}
