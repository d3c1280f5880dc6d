package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	articleColumns = `id, title, content, application, error_code, category, tags, severity, status,
		author, last_edited_by, versions, views, helpful, created_at, updated_at`
	articleListColumns = `id, title, content, application, error_code, category, tags, severity, status,
		author, last_edited_by, views, helpful, created_at, updated_at`
	articleSearchColumns = `id, title, application, error_code, category, tags, severity, status,
		author, last_edited_by, views, helpful, created_at, updated_at`
	articlePopularColumns = `id, title, application, error_code, category, views, helpful, created_at`
)

type ArticleRepository struct {
	db dbtx
}

func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{db: pool}
}

func NewArticleRepositoryWithTx(tx pgx.Tx) *ArticleRepository {
	return &ArticleRepository{db: tx}
}

func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) error {
	versions, err := marshalVersions(a.Versions)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO articles (id, title, content, application, error_code, category, tags, severity, status,
		                       author, last_edited_by, versions, views, helpful, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		a.ID, a.Title, a.Content, a.Application, nullableString(a.ErrorCode), a.Category, tagsOrEmpty(a.Tags),
		a.Severity, a.Status, a.Author, nullableString(a.LastEditedBy), versions, a.Views, a.Helpful,
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	if !validID(id) {
		return nil, domain.ErrArticleNotFound
	}

	a, err := scanArticle(r.db.QueryRow(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, err
	}
	return a, nil
}

// Update overwrites every mutable column, including the version log, and
// stamps UpdatedAt.
func (r *ArticleRepository) Update(ctx context.Context, a *domain.Article) error {
	if !validID(a.ID) {
		return domain.ErrArticleNotFound
	}

	versions, err := marshalVersions(a.Versions)
	if err != nil {
		return err
	}

	a.UpdatedAt = time.Now().UTC()
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE articles
		 SET title = $2, content = $3, application = $4, error_code = $5, category = $6, tags = $7,
		     severity = $8, status = $9, last_edited_by = $10, versions = $11, updated_at = $12
		 WHERE id = $1`,
		a.ID, a.Title, a.Content, a.Application, nullableString(a.ErrorCode), a.Category, tagsOrEmpty(a.Tags),
		a.Severity, a.Status, nullableString(a.LastEditedBy), versions, a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrArticleNotFound
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// IncrementViews adds one view in a single statement and returns the full article.
func (r *ArticleRepository) IncrementViews(ctx context.Context, id string) (*domain.Article, error) {
	if !validID(id) {
		return nil, domain.ErrArticleNotFound
	}

	a, err := scanArticle(r.db.QueryRow(ctx,
		`UPDATE articles SET views = views + 1 WHERE id = $1 RETURNING `+articleColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, err
	}
	return a, nil
}

// IncrementHelpful adds one helpful vote and returns the new count.
func (r *ArticleRepository) IncrementHelpful(ctx context.Context, id string) (int64, error) {
	if !validID(id) {
		return 0, domain.ErrArticleNotFound
	}

	var helpful int64
	err := r.db.QueryRow(ctx,
		`UPDATE articles SET helpful = helpful + 1 WHERE id = $1 RETURNING helpful`, id,
	).Scan(&helpful)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrArticleNotFound
		}
		return 0, err
	}
	return helpful, nil
}

// List runs a compiled statement without loading version logs and returns
// the page together with the total match count.
func (r *ArticleRepository) List(ctx context.Context, st query.Statement) ([]*domain.Article, int64, error) {
	return r.find(ctx, st, articleListColumns, true)
}

// Search is List without article content.
func (r *ArticleRepository) Search(ctx context.Context, st query.Statement) ([]*domain.Article, int64, error) {
	return r.find(ctx, st, articleSearchColumns, false)
}

func (r *ArticleRepository) find(ctx context.Context, st query.Statement, columns string, withContent bool) ([]*domain.Article, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM articles `+st.Where, st.FilterArgs()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	sql := fmt.Sprintf(`SELECT %s FROM articles %s %s %s`, columns, st.Where, st.OrderBy, st.Window)
	rows, err := r.db.Query(ctx, sql, st.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []*domain.Article{}
	for rows.Next() {
		var a domain.Article
		var errorCode, lastEditedBy *string
		dest := []any{&a.ID, &a.Title}
		if withContent {
			dest = append(dest, &a.Content)
		}
		dest = append(dest, &a.Application, &errorCode, &a.Category, &a.Tags, &a.Severity, &a.Status,
			&a.Author, &lastEditedBy, &a.Views, &a.Helpful, &a.CreatedAt, &a.UpdatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		a.ErrorCode = derefString(errorCode)
		a.LastEditedBy = derefString(lastEditedBy)
		items = append(items, &a)
	}
	return items, total, rows.Err()
}

// Popular returns the most viewed published articles in summary form.
func (r *ArticleRepository) Popular(ctx context.Context, limit int) ([]*domain.Article, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+articlePopularColumns+`
		 FROM articles
		 WHERE status = $1
		 ORDER BY views DESC, id DESC
		 LIMIT $2`,
		domain.StatusPublished, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domain.Article{}
	for rows.Next() {
		var a domain.Article
		var errorCode *string
		if err := rows.Scan(&a.ID, &a.Title, &a.Application, &errorCode, &a.Category, &a.Views, &a.Helpful, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.ErrorCode = derefString(errorCode)
		items = append(items, &a)
	}
	return items, rows.Err()
}

// GetVersions returns the article title and its version log, oldest first.
func (r *ArticleRepository) GetVersions(ctx context.Context, id string) (string, []domain.VersionSnapshot, error) {
	if !validID(id) {
		return "", nil, domain.ErrArticleNotFound
	}

	var title string
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT title, versions FROM articles WHERE id = $1`, id).Scan(&title, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, domain.ErrArticleNotFound
		}
		return "", nil, err
	}

	versions, err := unmarshalVersions(raw)
	if err != nil {
		return "", nil, err
	}
	return title, versions, nil
}

// ListAll returns every article with its version log in creation order.
func (r *ArticleRepository) ListAll(ctx context.Context) ([]*domain.Article, error) {
	rows, err := r.db.Query(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domain.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *ArticleRepository) DistinctApplications(ctx context.Context) ([]string, error) {
	return r.distinct(ctx,
		`SELECT application FROM articles
		 WHERE application <> ''
		 GROUP BY application
		 ORDER BY application COLLATE "C"`)
}

func (r *ArticleRepository) DistinctErrorCodes(ctx context.Context) ([]string, error) {
	return r.distinct(ctx,
		`SELECT error_code FROM articles
		 WHERE error_code IS NOT NULL AND error_code <> ''
		 GROUP BY error_code
		 ORDER BY error_code COLLATE "C"`)
}

func (r *ArticleRepository) DistinctTags(ctx context.Context) ([]string, error) {
	return r.distinct(ctx,
		`SELECT tag FROM articles, unnest(tags) AS tag
		 WHERE tag <> ''
		 GROUP BY tag
		 ORDER BY tag COLLATE "C"`)
}

func (r *ArticleRepository) distinct(ctx context.Context, sql string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return collectStrings(rows)
}

// Suggest returns up to limit distinct values of field among published
// articles that contain fragment, case-insensitively.
func (r *ArticleRepository) Suggest(ctx context.Context, field query.SuggestField, fragment string, limit int) ([]string, error) {
	pattern := query.EscapeLike(fragment)
	if field.Array {
		return r.distinct(ctx,
			`SELECT tag FROM articles, unnest(tags) AS tag
			 WHERE status = $1 AND tag ILIKE '%' || $2 || '%'
			 GROUP BY tag
			 ORDER BY tag
			 LIMIT $3`,
			domain.StatusPublished, pattern, limit)
	}

	col := field.Column
	return r.distinct(ctx,
		fmt.Sprintf(`SELECT %[1]s FROM articles
		 WHERE status = $1 AND %[1]s ILIKE '%%' || $2 || '%%'
		 GROUP BY %[1]s
		 ORDER BY %[1]s
		 LIMIT $3`, col),
		domain.StatusPublished, pattern, limit)
}

// DeleteAll removes every article. Used when reseeding.
// ExistsByTitle matches the exact title, case included.
func (r *ArticleRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM articles WHERE title = $1)`, title).Scan(&exists)
	return exists, err
}

func (r *ArticleRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM articles`)
	return err
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var a domain.Article
	var errorCode, lastEditedBy *string
	var versions []byte
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Application, &errorCode, &a.Category, &a.Tags,
		&a.Severity, &a.Status, &a.Author, &lastEditedBy, &versions, &a.Views, &a.Helpful,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.ErrorCode = derefString(errorCode)
	a.LastEditedBy = derefString(lastEditedBy)
	if a.Tags == nil {
		a.Tags = []string{}
	}
	a.Versions, err = unmarshalVersions(versions)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func marshalVersions(v []domain.VersionSnapshot) ([]byte, error) {
	if v == nil {
		v = []domain.VersionSnapshot{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode versions: %w", err)
	}
	return b, nil
}

func unmarshalVersions(raw []byte) ([]domain.VersionSnapshot, error) {
	versions := []domain.VersionSnapshot{}
	if len(raw) == 0 {
		return versions, nil
	}
	if err := json.Unmarshal(raw, &versions); err != nil {
		return nil, fmt.Errorf("decode versions: %w", err)
	}
	return versions, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
