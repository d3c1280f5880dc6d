package query

import (
	"strings"

	"github.com/cloo-solutions/techwiki/internal/domain"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Sort is an explicit ordering on one whitelisted field.
type Sort struct {
	Field string
	Desc  bool
}

// DefaultSort orders newest articles first.
var DefaultSort = Sort{Field: "createdAt", Desc: true}

var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"title":       "title",
	"application": "application",
	"category":    "category",
	"severity":    "array_position(ARRAY['low','medium','high','critical'], severity)",
	"status":      "status",
	"views":       "views",
	"helpful":     "helpful",
	"errorCode":   "error_code",
}

var sortAliases = map[string]string{
	"created_at": "createdAt",
	"updated_at": "updatedAt",
	"error_code": "errorCode",
}

// ParseSort reads "field" or "-field" (descending). An empty value yields DefaultSort.
func ParseSort(raw string) (Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort, nil
	}

	s := Sort{}
	if strings.HasPrefix(raw, "-") {
		s.Desc = true
		raw = raw[1:]
	} else if strings.HasPrefix(raw, "+") {
		raw = raw[1:]
	}

	if alias, ok := sortAliases[raw]; ok {
		raw = alias
	}
	if _, ok := sortColumns[raw]; !ok {
		return Sort{}, domain.NewValidationError(domain.ErrInvalidQuery, validation.Errors{
			"sort": validation.NewError("validation_invalid_sort", "cannot sort by "+raw),
		})
	}
	s.Field = raw
	return s, nil
}

// String renders the sort in its parameter form.
func (s Sort) String() string {
	if s.Desc {
		return "-" + s.Field
	}
	return s.Field
}

func (s Sort) clause() string {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = sortColumns[DefaultSort.Field]
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return col + " " + dir + ", id " + dir
}
