package pagination

import "math"

const (
	// MaxLimit bounds every page window.
	MaxLimit = 100
)

// Window is a page/limit selection over an ordered result set.
type Window struct {
	Page  int
	Limit int
}

// PageResult represents a paginated result set
type PageResult[T any] struct {
	Items []T
	Total int64
	Page  int
	Pages int
}

// New normalizes raw page and limit values. Pages start at 1; a non-positive
// limit falls back to defaultLimit and limits above MaxLimit are capped.
// page is clamped so the offset always fits in an int.
func New(page, limit, defaultLimit int) Window {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if maxPage := math.MaxInt/limit + 1; page > maxPage {
		page = maxPage
	}
	return Window{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip before this page.
func (w Window) Offset() int {
	if w.Page < 1 || w.Limit < 1 {
		return 0
	}
	if w.Page-1 > math.MaxInt/w.Limit {
		return math.MaxInt / w.Limit * w.Limit
	}
	return (w.Page - 1) * w.Limit
}

// Pages returns ceil(total / limit).
func (w Window) Pages(total int64) int {
	if w.Limit <= 0 || total <= 0 {
		return 0
	}
	limit := int64(w.Limit)
	return int((total + limit - 1) / limit)
}

// NewPageResult builds a PageResult for items fetched with w.
func NewPageResult[T any](items []T, total int64, w Window) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{
		Items: items,
		Total: total,
		Page:  w.Page,
		Pages: w.Pages(total),
	}
}
