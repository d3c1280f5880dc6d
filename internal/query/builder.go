package query

import (
	"fmt"
	"strings"

	"github.com/cloo-solutions/techwiki/internal/pagination"
)

// TextSearchConfig is the Postgres text search configuration used by the index.
const TextSearchConfig = "simple"

// Statement is a compiled article query. Where and OrderBy reference Args by
// position; Window references the two trailing Args (limit, offset).
type Statement struct {
	Where   string
	OrderBy string
	Window  string
	Args    []any

	filterArgs int
}

// FilterArgs returns the arguments referenced by Where only, for count queries.
func (s Statement) FilterArgs() []any {
	return s.Args[:s.filterArgs]
}

type builder struct {
	conds []string
	args  []any
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *builder) where(cond string) {
	b.conds = append(b.conds, cond)
}

// Build compiles filter, sort and window into a Statement. When the filter
// carries free text, results rank by text relevance and s is ignored.
func Build(f Filter, s Sort, w pagination.Window) Statement {
	b := &builder{}

	if f.Status != "" {
		b.where("status = " + b.arg(string(f.Status)))
	}
	if f.Category != "" {
		b.where("category = " + b.arg(string(f.Category)))
	}
	if f.Severity != "" {
		b.where("severity = " + b.arg(string(f.Severity)))
	}
	if f.Application != "" {
		b.where("application ILIKE '%' || " + b.arg(EscapeLike(f.Application)) + " || '%'")
	}
	if f.ErrorCode != "" {
		b.where("error_code ILIKE '%' || " + b.arg(EscapeLike(f.ErrorCode)) + " || '%'")
	}
	if len(f.Tags) > 0 {
		b.where("tags && " + b.arg(f.Tags) + "::text[]")
	}

	orderBy := s.clause()
	if f.HasText() {
		tsq := fmt.Sprintf("websearch_to_tsquery('%s', %s)", TextSearchConfig, b.arg(f.Text))
		b.where("search_vector @@ " + tsq)
		orderBy = "ts_rank(search_vector, " + tsq + ") DESC, created_at DESC, id DESC"
	}

	where := ""
	if len(b.conds) > 0 {
		where = "WHERE " + strings.Join(b.conds, " AND ")
	}

	filterArgs := len(b.args)
	window := fmt.Sprintf("LIMIT %s OFFSET %s", b.arg(w.Limit), b.arg(w.Offset()))

	return Statement{
		Where:      where,
		OrderBy:    "ORDER BY " + orderBy,
		Window:     window,
		Args:       b.args,
		filterArgs: filterArgs,
	}
}

// EscapeLike escapes LIKE metacharacters so user input matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
