package query

import (
	"testing"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(Params{
		Status:      "published",
		Category:    "error",
		Application: " SAP ",
		ErrorCode:   "RFC",
		Severity:    "alta",
		Tags:        "sap, rfc,,sap",
		Q:           "  timeout  ",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPublished, f.Status)
	assert.Equal(t, domain.CategoryError, f.Category)
	assert.Equal(t, domain.SeverityHigh, f.Severity)
	assert.Equal(t, "SAP", f.Application)
	assert.Equal(t, "RFC", f.ErrorCode)
	assert.Equal(t, []string{"sap", "rfc"}, f.Tags)
	assert.Equal(t, "timeout", f.Text)
	assert.True(t, f.HasText())
}

func TestParseFilter_Empty(t *testing.T) {
	f, err := ParseFilter(Params{})
	require.NoError(t, err)
	assert.Equal(t, Filter{}, f)
	assert.False(t, f.HasText())
}

func TestParseFilter_InvalidEnums(t *testing.T) {
	_, err := ParseFilter(Params{Status: "hidden", Category: "gossip", Severity: "urgent"})
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	fields := domain.FieldErrors(err)
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "category")
	assert.Contains(t, fields, "severity")
}

func TestFilter_Published(t *testing.T) {
	f := Filter{Status: domain.StatusDraft, Application: "SAP"}
	p := f.Published()

	assert.Equal(t, domain.StatusPublished, p.Status)
	assert.Equal(t, "SAP", p.Application)
	assert.Equal(t, domain.StatusDraft, f.Status, "original filter is untouched")
}

func TestParseTags(t *testing.T) {
	assert.Nil(t, ParseTags(""))
	assert.Nil(t, ParseTags("   "))
	assert.Equal(t, []string{"a", "b"}, ParseTags("a,b"))
	assert.Equal(t, []string{"a"}, ParseTags(" a , ,a"))
}
