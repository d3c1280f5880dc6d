package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `id, name, description, color, icon, article_count, created_at, updated_at`

type CategoryRepository struct {
	db dbtx
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: pool}
}

func NewCategoryRepositoryWithTx(tx pgx.Tx) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (id, name, description, color, icon, article_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Description, c.Color, c.Icon, c.ArticleCount, c.CreatedAt, c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrCategoryAlreadyExists
	}
	return err
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// RecomputeCount stores the number of published articles filed under the
// category's name and copies the new count onto c.
func (r *CategoryRepository) RecomputeCount(ctx context.Context, c *domain.Category) error {
	err := r.db.QueryRow(ctx,
		`UPDATE categories
		 SET article_count = (
		         SELECT count(*) FROM articles a
		         WHERE a.category = categories.name AND a.status = $2
		     ),
		     updated_at = $3
		 WHERE id = $1
		 RETURNING article_count, updated_at`,
		c.ID, domain.StatusPublished, time.Now().UTC(),
	).Scan(&c.ArticleCount, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCategoryNotFound
		}
		return err
	}
	return nil
}

// Statistics aggregates published articles per category, largest group first.
func (r *CategoryRepository) Statistics(ctx context.Context) ([]domain.CategoryStat, error) {
	rows, err := r.db.Query(ctx,
		`SELECT category,
		        count(*)::bigint,
		        COALESCE(sum(views), 0)::bigint,
		        COALESCE(avg(helpful), 0)::float8
		 FROM articles
		 WHERE status = $1
		 GROUP BY category
		 ORDER BY count(*) DESC, category`,
		domain.StatusPublished,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []domain.CategoryStat{}
	for rows.Next() {
		var s domain.CategoryStat
		if err := rows.Scan(&s.Category, &s.Count, &s.TotalViews, &s.AvgHelpful); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// DeleteAll removes every category. Used when reseeding.
func (r *CategoryRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM categories`)
	return err
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.Icon, &c.ArticleCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
