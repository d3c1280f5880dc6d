package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockArticleRepository is a mock implementation of ArticleRepositoryInterface
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, a *domain.Article) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleRepository) Update(ctx context.Context, a *domain.Article) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleRepository) IncrementViews(ctx context.Context, id string) (*domain.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleRepository) IncrementHelpful(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context, st query.Statement) ([]*domain.Article, int64, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Article), args.Get(1).(int64), args.Error(2)
}

func (m *MockArticleRepository) Popular(ctx context.Context, limit int) ([]*domain.Article, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Article), args.Error(1)
}

func (m *MockArticleRepository) GetVersions(ctx context.Context, id string) (string, []domain.VersionSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]domain.VersionSnapshot), args.Error(2)
}

func (m *MockArticleRepository) ListAll(ctx context.Context) ([]*domain.Article, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Article), args.Error(1)
}

func (m *MockArticleRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	args := m.Called(ctx, title)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockUUIDGenerator is a mock implementation of UUIDGenerator
type MockUUIDGenerator struct {
	callCount int
	uuids     []string
}

func NewMockUUIDGenerator(uuids ...string) *MockUUIDGenerator {
	return &MockUUIDGenerator{uuids: uuids}
}

func (m *MockUUIDGenerator) NewString() string {
	if m.callCount < len(m.uuids) {
		id := m.uuids[m.callCount]
		m.callCount++
		return id
	}
	return "default-uuid"
}

func strPtr(s string) *string { return &s }

func storedArticle() *domain.Article {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Article{
		ID:          "article-1",
		Title:       "X",
		Content:     "v1",
		Application: "SAP",
		Category:    domain.CategoryError,
		Tags:        []string{"sap"},
		Severity:    domain.SeverityHigh,
		Status:      domain.StatusPublished,
		Author:      "Alice",
		Versions:    []domain.VersionSnapshot{},
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestArticleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and stores an empty version log", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleServiceWithUUIDGen(repo, NewMockUUIDGenerator("article-1"))

		repo.On("Create", ctx, mock.MatchedBy(func(a *domain.Article) bool {
			return a.ID == "article-1" &&
				a.Severity == domain.SeverityMedium &&
				a.Status == domain.StatusPublished &&
				len(a.Versions) == 0 &&
				a.Views == 0 && a.Helpful == 0
		})).Return(nil)

		article, err := svc.Create(ctx, CreateArticleInput{
			Title:       "  RFC failure ",
			Content:     "steps",
			Application: "SAP",
			Category:    domain.CategoryError,
			Tags:        []string{"sap", " rfc", "sap"},
			Author:      "Alice",
		})

		require.NoError(t, err)
		assert.Equal(t, "RFC failure", article.Title)
		assert.Equal(t, []string{"sap", "rfc"}, article.Tags)
		assert.Equal(t, article.CreatedAt, article.UpdatedAt)
		assert.NotNil(t, article.Versions)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid drafts without writing", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)

		_, err := svc.Create(ctx, CreateArticleInput{
			Title:    "No body",
			Category: "gossip",
			Author:   "Alice",
		})

		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		fields := domain.FieldErrors(err)
		assert.Contains(t, fields, "content")
		assert.Contains(t, fields, "application")
		assert.Contains(t, fields, "category")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)
		repo.On("Create", ctx, mock.Anything).Return(errors.New("connection reset"))

		_, err := svc.Create(ctx, CreateArticleInput{
			Title: "X", Content: "v1", Application: "SAP",
			Category: domain.CategoryError, Author: "Alice",
		})

		assert.EqualError(t, err, "connection reset")
	})
}

func TestArticleService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the article with its view recorded", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)
		viewed := storedArticle()
		viewed.Views = 1
		repo.On("IncrementViews", ctx, "article-1").Return(viewed, nil)

		article, err := svc.Get(ctx, "article-1")

		require.NoError(t, err)
		assert.Equal(t, int64(1), article.Views)
		repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)
		repo.On("IncrementViews", ctx, "missing").Return(nil, domain.ErrArticleNotFound)

		_, err := svc.Get(ctx, "missing")

		assert.ErrorIs(t, err, domain.ErrArticleNotFound)
	})
}

func TestArticleService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots the prior state when saving a version", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)
		repo.On("GetByID", ctx, "article-1").Return(storedArticle(), nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		article, err := svc.Update(ctx, UpdateArticleInput{
			ID:    "article-1",
			Patch: domain.ArticlePatch{Content: strPtr("v2")},
			Edit:  domain.EditMetadata{SaveVersion: true, EditedBy: "Bob", ChangeDescription: "fix typo"},
		})

		require.NoError(t, err)
		require.Len(t, article.Versions, 1)
		v := article.Versions[0]
		assert.Equal(t, "v1", v.Content)
		assert.Equal(t, "Alice", v.EditedBy)
		assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), v.EditedAt)
		assert.Equal(t, "fix typo", v.ChangeDescription)
		assert.Equal(t, "v2", article.Content)
		assert.Equal(t, "Bob", article.LastEditedBy)
		repo.AssertExpectations(t)
	})

	t.Run("leaves the version log alone without saveVersion", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)
		repo.On("GetByID", ctx, "article-1").Return(storedArticle(), nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		sev := domain.SeverityCritical
		article, err := svc.Update(ctx, UpdateArticleInput{
			ID:    "article-1",
			Patch: domain.ArticlePatch{Severity: &sev},
		})

		require.NoError(t, err)
		assert.Empty(t, article.Versions)
		assert.Equal(t, domain.SeverityCritical, article.Severity)
		assert.Equal(t, "v1", article.Content)
	})

	t.Run("invalid patch writes nothing", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)
		repo.On("GetByID", ctx, "article-1").Return(storedArticle(), nil)

		status := domain.Status("hidden")
		_, err := svc.Update(ctx, UpdateArticleInput{
			ID:    "article-1",
			Patch: domain.ArticlePatch{Status: &status, Content: strPtr("v2")},
			Edit:  domain.EditMetadata{SaveVersion: true},
		})

		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		assert.Contains(t, domain.FieldErrors(err), "status")
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)
		repo.On("GetByID", ctx, "missing").Return(nil, domain.ErrArticleNotFound)

		_, err := svc.Update(ctx, UpdateArticleInput{ID: "missing"})

		assert.True(t, domain.IsNotFound(err))
	})
}

func TestArticleService_DeleteAndHelpful(t *testing.T) {
	ctx := context.Background()
	repo := new(MockArticleRepository)
	svc := NewArticleService(repo)

	repo.On("Delete", ctx, "article-1").Return(nil)
	repo.On("Delete", ctx, "missing").Return(domain.ErrArticleNotFound)
	repo.On("IncrementHelpful", ctx, "article-1").Return(int64(4), nil).Once()
	repo.On("IncrementHelpful", ctx, "article-1").Return(int64(5), nil).Once()

	require.NoError(t, svc.Delete(ctx, "article-1"))
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), domain.ErrArticleNotFound)

	first, err := svc.MarkHelpful(ctx, "article-1")
	require.NoError(t, err)
	second, err := svc.MarkHelpful(ctx, "article-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), first)
	assert.Equal(t, int64(5), second, "repeat votes keep counting")
	repo.AssertExpectations(t)
}

func TestArticleService_GetVersions(t *testing.T) {
	ctx := context.Background()
	repo := new(MockArticleRepository)
	svc := NewArticleService(repo)

	repo.On("GetVersions", ctx, "fresh").Return("Fresh article", nil, nil)

	out, err := svc.GetVersions(ctx, "fresh")

	require.NoError(t, err)
	assert.Equal(t, "Fresh article", out.Title)
	assert.NotNil(t, out.Versions)
	assert.Empty(t, out.Versions)
}

func TestArticleService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("builds a filtered page", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)

		repo.On("List", ctx, mock.MatchedBy(func(st query.Statement) bool {
			return st.Where == "WHERE category = $1 AND severity = $2" &&
				st.OrderBy == "ORDER BY created_at DESC, id DESC" &&
				assert.ObjectsAreEqual([]any{"error", "high", 10, 10}, st.Args)
		})).Return([]*domain.Article{storedArticle()}, int64(11), nil)

		page, err := svc.List(ctx, ListArticlesInput{
			Params: query.Params{Category: "error", Severity: "alta"},
			Page:   2,
			Limit:  10,
		})

		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, int64(11), page.Total)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 2, page.Pages)
	})

	t.Run("defaults the page size", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)
		repo.On("List", ctx, mock.MatchedBy(func(st query.Statement) bool {
			return st.Where == "" && assert.ObjectsAreEqual([]any{DefaultListLimit, 0}, st.Args)
		})).Return(nil, int64(0), nil)

		page, err := svc.List(ctx, ListArticlesInput{})

		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Equal(t, 0, page.Pages)
	})

	t.Run("rejects unknown enum values", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)

		_, err := svc.List(ctx, ListArticlesInput{Params: query.Params{Severity: "urgent"}})

		require.Error(t, err)
		assert.Contains(t, domain.FieldErrors(err), "severity")
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown sort fields", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)

		_, err := svc.List(ctx, ListArticlesInput{Sort: "password"})

		require.Error(t, err)
		assert.Contains(t, domain.FieldErrors(err), "sort")
	})
}

func TestArticleService_Popular(t *testing.T) {
	ctx := context.Background()
	repo := new(MockArticleRepository)
	svc := NewArticleService(repo)

	repo.On("Popular", ctx, DefaultPopularLimit).Return([]*domain.Article{storedArticle()}, nil)
	repo.On("Popular", ctx, 100).Return([]*domain.Article{}, nil)

	top, err := svc.Popular(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	_, err = svc.Popular(ctx, 5000)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
