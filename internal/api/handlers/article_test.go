package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/pagination"
	"github.com/cloo-solutions/techwiki/internal/query"
	"github.com/cloo-solutions/techwiki/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockArticleService struct {
	mock.Mock
}

func (m *MockArticleService) Create(ctx context.Context, input service.CreateArticleInput) (*domain.Article, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleService) Get(ctx context.Context, id string) (*domain.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleService) Update(ctx context.Context, input service.UpdateArticleInput) (*domain.Article, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleService) GetVersions(ctx context.Context, id string) (*service.ArticleVersions, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArticleVersions), args.Error(1)
}

func (m *MockArticleService) MarkHelpful(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleService) List(ctx context.Context, input service.ListArticlesInput) (*pagination.PageResult[*domain.Article], error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.PageResult[*domain.Article]), args.Error(1)
}

func (m *MockArticleService) Popular(ctx context.Context, limit int) ([]*domain.Article, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Article), args.Error(1)
}

func newTestArticle() *domain.Article {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Article{
		ID:          "a-123",
		Title:       "X",
		Content:     "v2",
		Application: "SAP",
		Category:    domain.CategoryError,
		Tags:        []string{"sap"},
		Severity:    domain.SeverityHigh,
		Status:      domain.StatusPublished,
		Author:      "Alice",
		Versions: []domain.VersionSnapshot{
			{Content: "v1", EditedBy: "Alice", EditedAt: created, ChangeDescription: "fix typo"},
		},
		Views:     3,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestArticleHandler_Create_Success(t *testing.T) {
	mockSvc := new(MockArticleService)
	handler := NewArticleHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateArticleInput) bool {
		return input.Title == "X" &&
			input.Category == domain.CategoryError &&
			input.Severity == domain.SeverityHigh &&
			input.Status == ""
	})).Return(newTestArticle(), nil)

	body := `{"title":"X","content":"v1","category":"error","application":"SAP","severity":"alta","author":"Alice"}`
	req := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "a-123", data["id"])
	assert.Len(t, data["versions"], 1)
	mockSvc.AssertExpectations(t)
}

func TestArticleHandler_Create_InvalidBody(t *testing.T) {
	handler := NewArticleHandler(new(MockArticleService))

	w := httptest.NewRecorder()
	handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestArticleHandler_Create_ValidationFields(t *testing.T) {
	mockSvc := new(MockArticleService)
	handler := NewArticleHandler(mockSvc)

	article := &domain.Article{Category: "gossip"}
	article.ApplyDefaults()
	validationErr := domain.ValidateArticle(article)
	mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, validationErr)

	w := httptest.NewRecorder()
	handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(`{"category":"gossip"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "title")
	assert.Contains(t, body.Fields, "category")
}

func TestArticleHandler_Get(t *testing.T) {
	t.Run("returns the full document", func(t *testing.T) {
		mockSvc := new(MockArticleService)
		handler := NewArticleHandler(mockSvc)
		mockSvc.On("Get", mock.Anything, "a-123").Return(newTestArticle(), nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/articles/a-123", nil), "id", "a-123")
		w := httptest.NewRecorder()
		handler.Get(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Equal(t, "v2", data["content"])
		assert.Equal(t, float64(3), data["views"])
		versions := data["versions"].([]any)
		assert.Equal(t, "v1", versions[0].(map[string]any)["content"])
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := new(MockArticleService)
		handler := NewArticleHandler(mockSvc)
		mockSvc.On("Get", mock.Anything, "missing").Return(nil, domain.ErrArticleNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/articles/missing", nil), "id", "missing")
		w := httptest.NewRecorder()
		handler.Get(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestArticleHandler_Update_SplitsControlFields(t *testing.T) {
	mockSvc := new(MockArticleService)
	handler := NewArticleHandler(mockSvc)

	mockSvc.On("Update", mock.Anything, mock.MatchedBy(func(input service.UpdateArticleInput) bool {
		return input.ID == "a-123" &&
			input.Patch.Content != nil && *input.Patch.Content == "v2" &&
			input.Patch.Title == nil &&
			!input.Patch.TagsSet &&
			input.Edit.SaveVersion &&
			input.Edit.EditedBy == "Bob" &&
			input.Edit.ChangeDescription == "fix typo"
	})).Return(newTestArticle(), nil)

	body := `{"content":"v2","saveVersion":true,"editedBy":"Bob","changeDescription":"fix typo"}`
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/articles/a-123", strings.NewReader(body)), "id", "a-123")
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestArticleHandler_Update_EmptyTagsClearsTags(t *testing.T) {
	mockSvc := new(MockArticleService)
	handler := NewArticleHandler(mockSvc)

	mockSvc.On("Update", mock.Anything, mock.MatchedBy(func(input service.UpdateArticleInput) bool {
		return input.Patch.TagsSet && len(input.Patch.Tags) == 0 &&
			input.Patch.Severity != nil && *input.Patch.Severity == domain.SeverityCritical
	})).Return(newTestArticle(), nil)

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"tags":[],"severity":"critica"}`)), "id", "a-123")
	w := httptest.NewRecorder()
	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestArticleHandler_List(t *testing.T) {
	mockSvc := new(MockArticleService)
	handler := NewArticleHandler(mockSvc)

	page := pagination.NewPageResult([]*domain.Article{newTestArticle()}, 51, pagination.Window{Page: 2, Limit: 50})
	mockSvc.On("List", mock.Anything, service.ListArticlesInput{
		Params: query.Params{Category: "error", Application: "sap", Tags: "sap,rfc"},
		Sort:   "-views",
		Page:   2,
		Limit:  0,
	}).Return(page, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/articles?category=error&application=sap&tags=sap,rfc&sort=-views&page=2&limit=abc", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	articles := data["articles"].([]any)
	require.Len(t, articles, 1)
	_, hasVersions := articles[0].(map[string]any)["versions"]
	assert.False(t, hasVersions)
	assert.Equal(t, map[string]any{"total": float64(51), "page": float64(2), "pages": float64(2)}, data["pagination"])
}

func TestArticleHandler_Popular(t *testing.T) {
	mockSvc := new(MockArticleService)
	handler := NewArticleHandler(mockSvc)
	popular := newTestArticle()
	popular.ErrorCode = "RFC_ERROR"
	mockSvc.On("Popular", mock.Anything, 5).Return([]*domain.Article{popular}, nil)

	w := httptest.NewRecorder()
	handler.Popular(w, httptest.NewRequest(http.MethodGet, "/api/articles/stats/popular?limit=5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "X", body.Data[0]["title"])
	assert.Equal(t, "RFC_ERROR", body.Data[0]["errorCode"])
	assert.Equal(t, "2024-03-01T10:00:00Z", body.Data[0]["createdAt"])
	assert.NotContains(t, body.Data[0], "content")
}

func TestArticleHandler_DeleteVersionsHelpful(t *testing.T) {
	mockSvc := new(MockArticleService)
	handler := NewArticleHandler(mockSvc)

	mockSvc.On("Delete", mock.Anything, "a-123").Return(nil)
	mockSvc.On("GetVersions", mock.Anything, "a-123").Return(&service.ArticleVersions{
		Title:    "X",
		Versions: []domain.VersionSnapshot{},
	}, nil)
	mockSvc.On("MarkHelpful", mock.Anything, "a-123").Return(int64(7), nil)

	w := httptest.NewRecorder()
	handler.Delete(w, withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", "a-123"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "article deleted", decodeData(t, w)["message"])

	w = httptest.NewRecorder()
	handler.Versions(w, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "a-123"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"title": "X", "versions": []any{}}, decodeData(t, w))

	w = httptest.NewRecorder()
	handler.MarkHelpful(w, withURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "id", "a-123"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(7), decodeData(t, w)["helpful"])
}

func TestArticleHandler_StoreErrorIsHidden(t *testing.T) {
	mockSvc := new(MockArticleService)
	handler := NewArticleHandler(mockSvc)
	mockSvc.On("Delete", mock.Anything, "a-123").Return(errors.New("pq: relation articles does not exist"))

	w := httptest.NewRecorder()
	handler.Delete(w, withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", "a-123"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")
}
