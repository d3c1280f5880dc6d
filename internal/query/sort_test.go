package query

import (
	"testing"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		raw  string
		want Sort
	}{
		{"", DefaultSort},
		{"title", Sort{Field: "title"}},
		{"+title", Sort{Field: "title"}},
		{"-views", Sort{Field: "views", Desc: true}},
		{"-created_at", Sort{Field: "createdAt", Desc: true}},
		{"errorCode", Sort{Field: "errorCode"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseSort(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSort_RejectsUnknownField(t *testing.T) {
	_, err := ParseSort("-password; DROP TABLE articles")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, domain.FieldErrors(err), "sort")
}

func TestSort_String(t *testing.T) {
	assert.Equal(t, "-createdAt", DefaultSort.String())
	assert.Equal(t, "title", Sort{Field: "title"}.String())
}
