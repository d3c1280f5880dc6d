package handlers

import (
	"time"

	"github.com/cloo-solutions/techwiki/internal/domain"
)

const timeLayout = time.RFC3339

// ArticleSummaryResponse is the shared article projection without content or versions.
type ArticleSummaryResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Application  string   `json:"application"`
	ErrorCode    string   `json:"errorCode,omitempty"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	Severity     string   `json:"severity"`
	Status       string   `json:"status"`
	Author       string   `json:"author"`
	LastEditedBy string   `json:"lastEditedBy,omitempty"`
	Views        int64    `json:"views"`
	Helpful      int64    `json:"helpful"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

// ArticleListItemResponse is a listing row: everything except the version log.
type ArticleListItemResponse struct {
	ArticleSummaryResponse
	Content string `json:"content"`
}

// ArticleResponse is the full document.
type ArticleResponse struct {
	ArticleSummaryResponse
	Content  string            `json:"content"`
	Versions []VersionResponse `json:"versions"`
}

type VersionResponse struct {
	Content           string `json:"content"`
	EditedBy          string `json:"editedBy"`
	EditedAt          string `json:"editedAt"`
	ChangeDescription string `json:"changeDescription,omitempty"`
}

// PopularArticleResponse is the most-viewed list projection.
type PopularArticleResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Application string `json:"application"`
	Category    string `json:"category"`
	ErrorCode   string `json:"errorCode,omitempty"`
	Views       int64  `json:"views"`
	Helpful     int64  `json:"helpful"`
	CreatedAt   string `json:"createdAt"`
}

type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Color        string `json:"color"`
	Icon         string `json:"icon"`
	ArticleCount int64  `json:"articleCount"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// CategoryStatResponse keeps the "_id" key the web frontend reads.
type CategoryStatResponse struct {
	ID         string  `json:"_id"`
	Count      int64   `json:"count"`
	TotalViews int64   `json:"totalViews"`
	AvgHelpful float64 `json:"avgHelpful"`
}

func articleToSummary(a *domain.Article) ArticleSummaryResponse {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return ArticleSummaryResponse{
		ID:           a.ID,
		Title:        a.Title,
		Application:  a.Application,
		ErrorCode:    a.ErrorCode,
		Category:     string(a.Category),
		Tags:         tags,
		Severity:     string(a.Severity),
		Status:       string(a.Status),
		Author:       a.Author,
		LastEditedBy: a.LastEditedBy,
		Views:        a.Views,
		Helpful:      a.Helpful,
		CreatedAt:    a.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:    a.UpdatedAt.UTC().Format(timeLayout),
	}
}

func articleToListItem(a *domain.Article) ArticleListItemResponse {
	return ArticleListItemResponse{ArticleSummaryResponse: articleToSummary(a), Content: a.Content}
}

func articleToResponse(a *domain.Article) ArticleResponse {
	return ArticleResponse{
		ArticleSummaryResponse: articleToSummary(a),
		Content:                a.Content,
		Versions:               versionsToResponse(a.Versions),
	}
}

func articleToPopular(a *domain.Article) PopularArticleResponse {
	return PopularArticleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Application: a.Application,
		Category:    string(a.Category),
		ErrorCode:   a.ErrorCode,
		Views:       a.Views,
		Helpful:     a.Helpful,
		CreatedAt:   a.CreatedAt.UTC().Format(timeLayout),
	}
}

func versionsToResponse(versions []domain.VersionSnapshot) []VersionResponse {
	out := make([]VersionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, VersionResponse{
			Content:           v.Content,
			EditedBy:          v.EditedBy,
			EditedAt:          v.EditedAt.UTC().Format(timeLayout),
			ChangeDescription: v.ChangeDescription,
		})
	}
	return out
}

func categoryToResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Color:        c.Color,
		Icon:         c.Icon,
		ArticleCount: c.ArticleCount,
		CreatedAt:    c.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:    c.UpdatedAt.UTC().Format(timeLayout),
	}
}

func categoriesToResponse(categories []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryToResponse(c))
	}
	return out
}

func mapArticles[T any](articles []*domain.Article, fn func(*domain.Article) T) []T {
	out := make([]T, 0, len(articles))
	for _, a := range articles {
		out = append(out, fn(a))
	}
	return out
}
