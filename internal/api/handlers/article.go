package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/techwiki/internal/api"
	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/pagination"
	"github.com/cloo-solutions/techwiki/internal/service"
	"github.com/go-chi/chi/v5"
)

type ArticleService interface {
	Create(ctx context.Context, input service.CreateArticleInput) (*domain.Article, error)
	Get(ctx context.Context, id string) (*domain.Article, error)
	Update(ctx context.Context, input service.UpdateArticleInput) (*domain.Article, error)
	Delete(ctx context.Context, id string) error
	GetVersions(ctx context.Context, id string) (*service.ArticleVersions, error)
	MarkHelpful(ctx context.Context, id string) (int64, error)
	List(ctx context.Context, input service.ListArticlesInput) (*pagination.PageResult[*domain.Article], error)
	Popular(ctx context.Context, limit int) ([]*domain.Article, error)
}

type ArticleHandler struct {
	svc ArticleService
}

func NewArticleHandler(svc ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

type CreateArticleRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Application string   `json:"application"`
	ErrorCode   string   `json:"errorCode"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Severity    string   `json:"severity"`
	Status      string   `json:"status"`
	Author      string   `json:"author"`
}

// UpdateArticleRequest mixes field updates with the edit control keys
// saveVersion, editedBy and changeDescription. Absent fields are left alone.
type UpdateArticleRequest struct {
	Title       *string   `json:"title"`
	Content     *string   `json:"content"`
	Application *string   `json:"application"`
	ErrorCode   *string   `json:"errorCode"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
	Severity    *string   `json:"severity"`
	Status      *string   `json:"status"`

	SaveVersion       bool   `json:"saveVersion"`
	EditedBy          string `json:"editedBy"`
	ChangeDescription string `json:"changeDescription"`
}

type ListArticlesResponse struct {
	Articles   []ArticleListItemResponse `json:"articles"`
	Pagination PaginationResponse        `json:"pagination"`
}

type PaginationResponse struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

type VersionsResponse struct {
	Title    string            `json:"title"`
	Versions []VersionResponse `json:"versions"`
}

type HelpfulResponse struct {
	Helpful int64 `json:"helpful"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (req CreateArticleRequest) toInput() service.CreateArticleInput {
	input := service.CreateArticleInput{
		Title:       req.Title,
		Content:     req.Content,
		Application: req.Application,
		ErrorCode:   req.ErrorCode,
		Tags:        req.Tags,
		Author:      req.Author,
	}
	if req.Category != "" {
		input.Category = domain.ParseCategory(req.Category)
	}
	if req.Severity != "" {
		input.Severity = domain.ParseSeverity(req.Severity)
	}
	if req.Status != "" {
		input.Status = domain.ParseStatus(req.Status)
	}
	return input
}

func (req UpdateArticleRequest) toInput(id string) service.UpdateArticleInput {
	patch := domain.ArticlePatch{
		Title:       req.Title,
		Content:     req.Content,
		Application: req.Application,
		ErrorCode:   req.ErrorCode,
	}
	if req.Category != nil {
		c := domain.ParseCategory(*req.Category)
		patch.Category = &c
	}
	if req.Tags != nil {
		patch.Tags = *req.Tags
		patch.TagsSet = true
	}
	if req.Severity != nil {
		s := domain.ParseSeverity(*req.Severity)
		patch.Severity = &s
	}
	if req.Status != nil {
		s := domain.ParseStatus(*req.Status)
		patch.Status = &s
	}

	return service.UpdateArticleInput{
		ID:    id,
		Patch: patch,
		Edit: domain.EditMetadata{
			SaveVersion:       req.SaveVersion,
			EditedBy:          req.EditedBy,
			ChangeDescription: req.ChangeDescription,
		},
	}
}

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.List(r.Context(), service.ListArticlesInput{
		Params: filterParams(r),
		Sort:   r.URL.Query().Get("sort"),
		Page:   intParam(r, "page"),
		Limit:  intParam(r, "limit"),
	})
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, ListArticlesResponse{
		Articles: mapArticles(page.Items, articleToListItem),
		Pagination: PaginationResponse{
			Total: page.Total,
			Page:  page.Page,
			Pages: page.Pages,
		},
	})
}

func (h *ArticleHandler) Popular(w http.ResponseWriter, r *http.Request) {
	articles, err := h.svc.Popular(r.Context(), intParam(r, "limit"))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, mapArticles(articles, articleToPopular))
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	article, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, articleToResponse(article))
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	article, err := h.svc.Create(r.Context(), req.toInput())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusCreated, articleToResponse(article))
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	article, err := h.svc.Update(r.Context(), req.toInput(chi.URLParam(r, "id")))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, articleToResponse(article))
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, MessageResponse{Message: "article deleted"})
}

func (h *ArticleHandler) Versions(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetVersions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, VersionsResponse{
		Title:    out.Title,
		Versions: versionsToResponse(out.Versions),
	})
}

func (h *ArticleHandler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	helpful, err := h.svc.MarkHelpful(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, HelpfulResponse{Helpful: helpful})
}
