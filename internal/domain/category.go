package domain

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#3B82F6"

// Category is a classification bucket with a cached count of published articles.
//
// ArticleCount is a denormalized cache: it goes stale on every article create,
// delete or status change and is only corrected by an explicit recompute.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Color        string    `json:"color"`
	Icon         string    `json:"icon"`
	ArticleCount int64     `json:"articleCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CategoryStat is a fresh aggregate over published articles of one category.
type CategoryStat struct {
	Category   string
	Count      int64
	TotalViews int64
	AvgHelpful float64
}

// Normalize trims the name and fills the default color.
func (c *Category) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Color = strings.TrimSpace(c.Color)
	if c.Color == "" {
		c.Color = DefaultCategoryColor
	}
}

// ValidateCategory validates a Category instance
func ValidateCategory(c *Category) error {
	if c == nil {
		return ErrInvalidCategory
	}

	err := validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required.Error("is required"), validation.Length(1, 100)),
		validation.Field(&c.ArticleCount, validation.Min(int64(0))),
	)
	if err == nil {
		return nil
	}

	if fields, ok := err.(validation.Errors); ok {
		return NewValidationError(ErrInvalidCategory, fields)
	}
	return NewDomainErrorWithCause(ErrCodeValidation, ErrInvalidCategory.Message, err)
}
