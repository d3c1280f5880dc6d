package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/techwiki/internal/api"
	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/service"
)

type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, input service.CreateCategoryInput) (*domain.Category, error)
	RecomputeCounts(ctx context.Context) ([]*domain.Category, error)
	Statistics(ctx context.Context) ([]domain.CategoryStat, error)
}

type CategoryHandler struct {
	svc CategoryService
}

func NewCategoryHandler(svc CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

type RecomputeCountsResponse struct {
	Message    string             `json:"message"`
	Categories []CategoryResponse `json:"categories"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.List(r.Context())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, categoriesToResponse(categories))
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.svc.Create(r.Context(), service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	})
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusCreated, categoryToResponse(category))
}

func (h *CategoryHandler) RecomputeCounts(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.RecomputeCounts(r.Context())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, RecomputeCountsResponse{
		Message:    "category counts updated",
		Categories: categoriesToResponse(categories),
	})
}

func (h *CategoryHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Statistics(r.Context())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	out := make([]CategoryStatResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, CategoryStatResponse{
			ID:         s.Category,
			Count:      s.Count,
			TotalViews: s.TotalViews,
			AvgHelpful: s.AvgHelpful,
		})
	}
	api.Success(w, http.StatusOK, out)
}
