package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/query"
	"github.com/cloo-solutions/techwiki/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, input service.SearchInput) (*service.SearchOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchOutput), args.Error(1)
}

func (m *MockSearchService) Applications(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSearchService) ErrorCodes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSearchService) Tags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSearchService) Suggestions(ctx context.Context, fragment, field string) ([]string, error) {
	args := m.Called(ctx, fragment, field)
	return args.Get(0).([]string), args.Error(1)
}

func TestSearchHandler_Search(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Search", mock.Anything, service.SearchInput{
		Params: query.Params{Q: "rfc timeout", ErrorCode: "RFC"},
		Limit:  10,
	}).Return(&service.SearchOutput{
		Results: []*domain.Article{newTestArticle()},
		Count:   1,
		Total:   1,
		Page:    1,
		Pages:   1,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=rfc+timeout&error_code=RFC&limit=10", nil)
	w := httptest.NewRecorder()
	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, map[string]any{"q": "rfc timeout", "error_code": "RFC", "limit": "10"}, data["query"])
	assert.Equal(t, float64(1), data["count"])
	results := data["results"].([]any)
	require.Len(t, results, 1)
	result := results[0].(map[string]any)
	assert.NotContains(t, result, "content")
	assert.NotContains(t, result, "versions")
	assert.Equal(t, "X", result["title"])
}

func TestSearchHandler_Lists(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)
	mockSvc.On("Applications", mock.Anything).Return([]string{"Oracle DB", "SAP ERP"}, nil)
	mockSvc.On("ErrorCodes", mock.Anything).Return([]string(nil), nil)
	mockSvc.On("Tags", mock.Anything).Return([]string{"oracle", "rfc", "sap"}, nil)

	w := httptest.NewRecorder()
	handler.Applications(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"data":["Oracle DB","SAP ERP"]}`, w.Body.String())

	w = httptest.NewRecorder()
	handler.ErrorCodes(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())

	w = httptest.NewRecorder()
	handler.Tags(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"data":["oracle","rfc","sap"]}`, w.Body.String())
}

func TestSearchHandler_Suggestions(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)
	mockSvc.On("Suggestions", mock.Anything, "sa", "application").Return([]string{"SAP ERP"}, nil)
	mockSvc.On("Suggestions", mock.Anything, "sa", "secret").Return([]string(nil), domain.ErrInvalidQuery)

	w := httptest.NewRecorder()
	handler.Suggestions(w, httptest.NewRequest(http.MethodGet, "/api/search/suggestions?q=sa&field=application", nil))
	assert.JSONEq(t, `{"data":["SAP ERP"]}`, w.Body.String())

	w = httptest.NewRecorder()
	handler.Suggestions(w, httptest.NewRequest(http.MethodGet, "/api/search/suggestions?q=sa&field=secret", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
