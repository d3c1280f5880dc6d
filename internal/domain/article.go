package domain

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AnonymousEditor is recorded when a version is saved without an editor identity.
const AnonymousEditor = "anonymous"

// Article is a knowledge-base entry documenting an issue, solution or procedure.
// The json tags double as field names in validation errors and version storage.
type Article struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	Application  string            `json:"application"`
	ErrorCode    string            `json:"errorCode"`
	Category     ArticleCategory   `json:"category"`
	Tags         []string          `json:"tags"`
	Severity     Severity          `json:"severity"`
	Status       Status            `json:"status"`
	Author       string            `json:"author"`
	LastEditedBy string            `json:"lastEditedBy"`
	Versions     []VersionSnapshot `json:"versions"`
	Views        int64             `json:"views"`
	Helpful      int64             `json:"helpful"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// VersionSnapshot is an immutable copy of an article's state before an edit.
//
// EditedBy and EditedAt describe who produced that prior state and when it was
// persisted, not who triggered the snapshot.
type VersionSnapshot struct {
	Content           string    `json:"content"`
	EditedBy          string    `json:"editedBy"`
	EditedAt          time.Time `json:"editedAt"`
	ChangeDescription string    `json:"changeDescription,omitempty"`
}

// ArticlePatch carries the mutable fields of an update. Nil fields keep their value.
type ArticlePatch struct {
	Title       *string
	Content     *string
	Application *string
	ErrorCode   *string
	Category    *ArticleCategory
	Tags        []string
	TagsSet     bool
	Severity    *Severity
	Status      *Status
}

// EditMetadata carries the control part of an update, kept apart from the field patch.
type EditMetadata struct {
	SaveVersion       bool
	EditedBy          string
	ChangeDescription string
}

// AppendVersion pushes a snapshot of the current, not yet mutated, state and then
// records editedBy as the last editor. It must run before the patch is applied.
func (a *Article) AppendVersion(editedBy, changeDescription string) {
	previousEditor := a.LastEditedBy
	if previousEditor == "" {
		previousEditor = a.Author
	}

	a.Versions = append(a.Versions, VersionSnapshot{
		Content:           a.Content,
		EditedBy:          previousEditor,
		EditedAt:          a.UpdatedAt,
		ChangeDescription: changeDescription,
	})
	a.LastEditedBy = editedBy
}

// ApplyPatch overwrites every field present in p.
func (a *Article) ApplyPatch(p ArticlePatch) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Application != nil {
		a.Application = *p.Application
	}
	if p.ErrorCode != nil {
		a.ErrorCode = *p.ErrorCode
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.TagsSet {
		a.Tags = p.Tags
	}
	if p.Severity != nil {
		a.Severity = *p.Severity
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	a.Normalize()
}

// Edit runs the full update sequence: optional snapshot, patch, editor attribution.
// An explicit editor always wins over the one AppendVersion recorded.
func (a *Article) Edit(p ArticlePatch, meta EditMetadata) {
	if meta.SaveVersion {
		editor := meta.EditedBy
		if editor == "" {
			editor = AnonymousEditor
		}
		a.AppendVersion(editor, meta.ChangeDescription)
	}

	a.ApplyPatch(p)

	if meta.EditedBy != "" {
		a.LastEditedBy = meta.EditedBy
	}
}

// ApplyDefaults fills severity and status when they were omitted.
func (a *Article) ApplyDefaults() {
	if a.Severity == "" {
		a.Severity = DefaultSeverity
	}
	if a.Status == "" {
		a.Status = DefaultStatus
	}
	if a.Versions == nil {
		a.Versions = []VersionSnapshot{}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
}

// Normalize trims text fields and tags.
func (a *Article) Normalize() {
	a.Title = strings.TrimSpace(a.Title)
	a.Application = strings.TrimSpace(a.Application)
	a.ErrorCode = strings.TrimSpace(a.ErrorCode)
	a.Author = strings.TrimSpace(a.Author)
	a.Tags = NormalizeTags(a.Tags)
}

// IsPublished reports whether the article is visible to search.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// NormalizeTags trims labels, drops empty ones and removes duplicates.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ValidateArticle checks required fields and enumeration membership.
func ValidateArticle(a *Article) error {
	if a == nil {
		return ErrInvalidArticle
	}

	err := validation.ValidateStruct(a,
		validation.Field(&a.Title, validation.Required.Error("is required")),
		validation.Field(&a.Content, validation.Required.Error("is required")),
		validation.Field(&a.Application, validation.Required.Error("is required")),
		validation.Field(&a.Author, validation.Required.Error("is required")),
		validation.Field(&a.Category,
			validation.Required.Error("is required"),
			validation.In(toAny(AllCategories())...).Error("must be one of incident, error, solution, procedure, configuration, maintenance"),
		),
		validation.Field(&a.Severity,
			validation.Required.Error("is required"),
			validation.In(toAny(AllSeverities())...).Error("must be one of low, medium, high, critical"),
		),
		validation.Field(&a.Status,
			validation.Required.Error("is required"),
			validation.In(toAny(AllStatuses())...).Error("must be one of draft, published, archived"),
		),
		validation.Field(&a.Views, validation.Min(int64(0))),
		validation.Field(&a.Helpful, validation.Min(int64(0))),
	)
	if err == nil {
		return nil
	}

	if fields, ok := err.(validation.Errors); ok {
		return NewValidationError(ErrInvalidArticle, fields)
	}
	return NewDomainErrorWithCause(ErrCodeValidation, ErrInvalidArticle.Message, err)
}

func toAny[T any](values []T) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
