package handlers

import (
	"context"
	"net/http"

	"github.com/cloo-solutions/techwiki/internal/api"
	"github.com/cloo-solutions/techwiki/internal/service"
)

type SearchService interface {
	Search(ctx context.Context, input service.SearchInput) (*service.SearchOutput, error)
	Applications(ctx context.Context) ([]string, error)
	ErrorCodes(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
	Suggestions(ctx context.Context, fragment, field string) ([]string, error)
}

type SearchHandler struct {
	svc SearchService
}

func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type SearchResponse struct {
	Results []ArticleSummaryResponse `json:"results"`
	Count   int                      `json:"count"`
	Total   int64                    `json:"total"`
	Page    int                      `json:"page"`
	Pages   int                      `json:"pages"`
	// Query echoes the request's query parameters, first value per key.
	Query map[string]string `json:"query"`
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := filterParams(r)
	out, err := h.svc.Search(r.Context(), service.SearchInput{
		Params: params,
		Page:   intParam(r, "page"),
		Limit:  intParam(r, "limit"),
	})
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, SearchResponse{
		Results: mapArticles(out.Results, articleToSummary),
		Count:   out.Count,
		Total:   out.Total,
		Page:    out.Page,
		Pages:   out.Pages,
		Query:   echoQuery(r),
	})
}

func (h *SearchHandler) Applications(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.svc.Applications)
}

func (h *SearchHandler) ErrorCodes(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.svc.ErrorCodes)
}

func (h *SearchHandler) Tags(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.svc.Tags)
}

func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	values, err := h.svc.Suggestions(r.Context(), q.Get("q"), q.Get("field"))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, nonNil(values))
}

func (h *SearchHandler) writeList(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]string, error)) {
	values, err := fetch(r.Context())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}
	api.Success(w, http.StatusOK, nonNil(values))
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
