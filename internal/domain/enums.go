package domain

import "strings"

// ArticleCategory classifies what kind of knowledge an article records.
type ArticleCategory string

const (
	CategoryIncident      ArticleCategory = "incident"
	CategoryError         ArticleCategory = "error"
	CategorySolution      ArticleCategory = "solution"
	CategoryProcedure     ArticleCategory = "procedure"
	CategoryConfiguration ArticleCategory = "configuration"
	CategoryMaintenance   ArticleCategory = "maintenance"
)

// Severity is the four-level impact ordinal of an article.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Status controls article visibility. Only published articles appear in search.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

const (
	DefaultSeverity = SeverityMedium
	DefaultStatus   = StatusPublished
)

// AllCategories lists every article category in display order.
func AllCategories() []ArticleCategory {
	return []ArticleCategory{
		CategoryIncident, CategoryError, CategorySolution,
		CategoryProcedure, CategoryConfiguration, CategoryMaintenance,
	}
}

// AllSeverities lists every severity from lowest to highest.
func AllSeverities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

// AllStatuses lists every article status.
func AllStatuses() []Status {
	return []Status{StatusDraft, StatusPublished, StatusArchived}
}

// Valid reports whether c is a known category.
func (c ArticleCategory) Valid() bool {
	switch c {
	case CategoryIncident, CategoryError, CategorySolution,
		CategoryProcedure, CategoryConfiguration, CategoryMaintenance:
		return true
	}
	return false
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Rank orders severities; unknown values rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Values written by the first version of the knowledge base.
var (
	legacyCategories = map[string]ArticleCategory{
		"incidencia":    CategoryIncident,
		"solucion":      CategorySolution,
		"procedimiento": CategoryProcedure,
		"configuracion": CategoryConfiguration,
		"mantenimiento": CategoryMaintenance,
	}
	legacySeverities = map[string]Severity{
		"baja":    SeverityLow,
		"media":   SeverityMedium,
		"alta":    SeverityHigh,
		"critica": SeverityCritical,
	}
	legacyStatuses = map[string]Status{
		"borrador":  StatusDraft,
		"publicado": StatusPublished,
		"archivado": StatusArchived,
	}
)

// ParseCategory normalizes raw input, accepting legacy aliases.
// The returned value may be invalid; callers validate it.
func ParseCategory(raw string) ArticleCategory {
	v := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := legacyCategories[v]; ok {
		return c
	}
	return ArticleCategory(v)
}

// ParseSeverity normalizes raw input, accepting legacy aliases.
func ParseSeverity(raw string) Severity {
	v := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := legacySeverities[v]; ok {
		return s
	}
	return Severity(v)
}

// ParseStatus normalizes raw input, accepting legacy aliases.
func ParseStatus(raw string) Status {
	v := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := legacyStatuses[v]; ok {
		return s
	}
	return Status(v)
}
