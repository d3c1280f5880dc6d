package service

import (
	"context"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/metrics"
	"github.com/cloo-solutions/techwiki/internal/pagination"
	"github.com/cloo-solutions/techwiki/internal/query"
	"github.com/cloo-solutions/techwiki/internal/telemetry"
)

// DefaultSearchLimit is the page size for searches.
const DefaultSearchLimit = 20

// SearchRepositoryInterface defines the read-only article queries behind search.
type SearchRepositoryInterface interface {
	Search(ctx context.Context, st query.Statement) ([]*domain.Article, int64, error)
	DistinctApplications(ctx context.Context) ([]string, error)
	DistinctErrorCodes(ctx context.Context) ([]string, error)
	DistinctTags(ctx context.Context) ([]string, error)
	Suggest(ctx context.Context, field query.SuggestField, fragment string, limit int) ([]string, error)
}

// SearchService runs published-only searches and the derived value lists.
type SearchService struct {
	repo SearchRepositoryInterface
}

func NewSearchService(repo SearchRepositoryInterface) *SearchService {
	return &SearchService{repo: repo}
}

// SearchInput carries raw search parameters. Params.Status is ignored.
type SearchInput struct {
	Params query.Params
	Page   int
	Limit  int
}

// SearchOutput holds one page of results. Results carry no content or versions.
type SearchOutput struct {
	Results []*domain.Article
	Count   int
	Total   int64
	Page    int
	Pages   int
}

// Search ranks by text relevance when a query is present and by newest first
// otherwise.
func (s *SearchService) Search(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.Search", telemetry.SpanAttributes{
		Operation: "search",
		Query:     input.Params.Q,
	})
	defer span.End()

	filter, err := query.ParseFilter(input.Params)
	if err != nil {
		return nil, err
	}
	filter = filter.Published()
	window := pagination.New(input.Page, input.Limit, DefaultSearchLimit)

	results, total, err := s.repo.Search(ctx, query.Build(filter, query.DefaultSort, window))
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if results == nil {
		results = []*domain.Article{}
	}

	metrics.ObserveSearch(filter.HasText(), total)
	return &SearchOutput{
		Results: results,
		Count:   len(results),
		Total:   total,
		Page:    window.Page,
		Pages:   window.Pages(total),
	}, nil
}

func (s *SearchService) Applications(ctx context.Context) ([]string, error) {
	return s.repo.DistinctApplications(ctx)
}

func (s *SearchService) ErrorCodes(ctx context.Context) ([]string, error) {
	return s.repo.DistinctErrorCodes(ctx)
}

func (s *SearchService) Tags(ctx context.Context) ([]string, error) {
	return s.repo.DistinctTags(ctx)
}

// Suggestions autocompletes a fragment against one field. Fragments shorter
// than two characters yield an empty list without touching the store.
func (s *SearchService) Suggestions(ctx context.Context, fragment, field string) ([]string, error) {
	if !query.SuggestionEligible(fragment) {
		return []string{}, nil
	}

	f, err := query.ParseSuggestField(field)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "SearchService.Suggestions", telemetry.SpanAttributes{
		Operation: "suggest",
		Query:     fragment,
	})
	defer span.End()

	return s.repo.Suggest(ctx, f, fragment, query.MaxSuggestions)
}
