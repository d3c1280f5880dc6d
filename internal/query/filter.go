// Package query translates flat article filter parameters into SQL fragments
// for the articles table: WHERE conditions, ranking, ordering and the page window.
package query

import (
	"strings"

	"github.com/cloo-solutions/techwiki/internal/domain"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Params holds raw, optional filter parameters as received from a caller.
type Params struct {
	Status      string
	Category    string
	Application string
	ErrorCode   string
	Severity    string
	Tags        string
	Q           string
}

// Filter is the validated form of Params. Zero fields add no constraint.
type Filter struct {
	Status      domain.Status
	Category    domain.ArticleCategory
	Application string
	ErrorCode   string
	Severity    domain.Severity
	Tags        []string
	Text        string
}

// ParseFilter validates enum parameters and splits the comma separated tag list.
func ParseFilter(p Params) (Filter, error) {
	f := Filter{
		Application: strings.TrimSpace(p.Application),
		ErrorCode:   strings.TrimSpace(p.ErrorCode),
		Tags:        ParseTags(p.Tags),
		Text:        strings.TrimSpace(p.Q),
	}

	fields := validation.Errors{}
	if p.Status != "" {
		f.Status = domain.ParseStatus(p.Status)
		if !f.Status.Valid() {
			fields["status"] = validation.NewError("validation_invalid_status", "must be one of draft, published, archived")
		}
	}
	if p.Category != "" {
		f.Category = domain.ParseCategory(p.Category)
		if !f.Category.Valid() {
			fields["category"] = validation.NewError("validation_invalid_category", "is not a known category")
		}
	}
	if p.Severity != "" {
		f.Severity = domain.ParseSeverity(p.Severity)
		if !f.Severity.Valid() {
			fields["severity"] = validation.NewError("validation_invalid_severity", "must be one of low, medium, high, critical")
		}
	}

	if len(fields) > 0 {
		return Filter{}, domain.NewValidationError(domain.ErrInvalidQuery, fields)
	}
	return f, nil
}

// ParseTags splits a comma separated list, trimming labels and dropping empty ones.
func ParseTags(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return domain.NormalizeTags(strings.Split(csv, ","))
}

// Published returns a copy of f restricted to published articles, whatever
// status the caller asked for.
func (f Filter) Published() Filter {
	f.Status = domain.StatusPublished
	return f
}

// HasText reports whether free-text search (and relevance ranking) applies.
func (f Filter) HasText() bool {
	return f.Text != ""
}
