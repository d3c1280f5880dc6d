package query

import (
	"unicode/utf8"

	"github.com/cloo-solutions/techwiki/internal/domain"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// MinSuggestionLength is the shortest fragment that yields suggestions.
	MinSuggestionLength = 2
	// MaxSuggestions bounds the suggestion list.
	MaxSuggestions = 5
	// DefaultSuggestField is used when no field is given.
	DefaultSuggestField = "title"
)

// SuggestField names an article field that supports autocompletion.
type SuggestField struct {
	Name   string
	Column string
	Array  bool
}

var suggestFields = map[string]SuggestField{
	"title":       {Name: "title", Column: "title"},
	"application": {Name: "application", Column: "application"},
	"errorCode":   {Name: "errorCode", Column: "error_code"},
	"tags":        {Name: "tags", Column: "tags", Array: true},
}

// ParseSuggestField resolves a field name, defaulting to title.
func ParseSuggestField(name string) (SuggestField, error) {
	if name == "" {
		name = DefaultSuggestField
	}
	if name == "error_code" {
		name = "errorCode"
	}
	f, ok := suggestFields[name]
	if !ok {
		return SuggestField{}, domain.NewValidationError(domain.ErrInvalidQuery, validation.Errors{
			"field": validation.NewError("validation_invalid_field", "suggestions are not available for "+name),
		})
	}
	return f, nil
}

// SuggestionEligible reports whether a fragment is long enough to look up.
func SuggestionEligible(fragment string) bool {
	return utf8.RuneCountInString(fragment) >= MinSuggestionLength
}
