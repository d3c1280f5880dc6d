package service

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/telemetry"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/seed.yaml
var defaultSeedFixtures []byte

// SeedFixtures is the YAML document loaded by the seed command.
type SeedFixtures struct {
	Categories []SeedCategory `yaml:"categories"`
	Articles   []SeedArticle  `yaml:"articles"`
}

type SeedCategory struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
	Icon        string `yaml:"icon"`
}

type SeedArticle struct {
	Title       string   `yaml:"title"`
	Content     string   `yaml:"content"`
	Application string   `yaml:"application"`
	ErrorCode   string   `yaml:"errorCode"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	Severity    string   `yaml:"severity"`
	Status      string   `yaml:"status"`
	Author      string   `yaml:"author"`
	Views       int64    `yaml:"views"`
	Helpful     int64    `yaml:"helpful"`
}

// ParseSeedFixtures decodes a fixtures document.
func ParseSeedFixtures(data []byte) (*SeedFixtures, error) {
	var f SeedFixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed fixtures: %w", err)
	}
	return &f, nil
}

// DefaultSeedFixtures returns the sample knowledge base shipped with the binary.
func DefaultSeedFixtures() (*SeedFixtures, error) {
	return ParseSeedFixtures(defaultSeedFixtures)
}

type SeedOptions struct {
	// Reset deletes all articles and categories before loading.
	Reset bool
}

type SeedResult struct {
	Articles          int
	Categories        int
	SkippedCategories int
	// SkippedArticles counts fixtures whose title is already stored.
	SkippedArticles int
}

// SeedService loads fixtures in a single transaction and refreshes category counts.
type SeedService struct {
	txRunner TxRunner
	uuidGen  UUIDGenerator
}

func NewSeedService(txRunner TxRunner) *SeedService {
	return &SeedService{txRunner: txRunner, uuidGen: &DefaultUUIDGenerator{}}
}

func NewSeedServiceWithUUIDGen(txRunner TxRunner, uuidGen UUIDGenerator) *SeedService {
	return &SeedService{txRunner: txRunner, uuidGen: uuidGen}
}

const seedLockKey = "seed"

// Run validates every fixture before writing anything, then inserts them.
// Existing categories with the same name are kept.
func (s *SeedService) Run(ctx context.Context, fixtures *SeedFixtures, opts SeedOptions) (*SeedResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "SeedService.Run", telemetry.SpanAttributes{
		Operation: "seed",
	})
	defer span.End()

	now := time.Now().UTC()
	categories := make([]*domain.Category, 0, len(fixtures.Categories))
	for _, fc := range fixtures.Categories {
		c := &domain.Category{
			ID:          s.uuidGen.NewString(),
			Name:        fc.Name,
			Description: fc.Description,
			Color:       fc.Color,
			Icon:        fc.Icon,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		c.Normalize()
		if err := domain.ValidateCategory(c); err != nil {
			return nil, fmt.Errorf("category %q: %w", fc.Name, err)
		}
		categories = append(categories, c)
	}

	articles := make([]*domain.Article, 0, len(fixtures.Articles))
	for _, fa := range fixtures.Articles {
		a := seedArticle(fa, s.uuidGen.NewString(), now)
		if err := domain.ValidateArticle(a); err != nil {
			return nil, fmt.Errorf("article %q: %w", fa.Title, err)
		}
		articles = append(articles, a)
	}

	result := &SeedResult{}
	err := s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Lock(ctx, seedLockKey); err != nil {
			return err
		}
		if opts.Reset {
			if err := repos.Articles().DeleteAll(ctx); err != nil {
				return fmt.Errorf("clear articles: %w", err)
			}
			if err := repos.Categories().DeleteAll(ctx); err != nil {
				return fmt.Errorf("clear categories: %w", err)
			}
			telemetry.AddBreadcrumb(ctx, "seed", "cleared articles and categories")
		}

		for _, c := range categories {
			_, err := repos.Categories().GetByName(ctx, c.Name)
			if err == nil {
				result.SkippedCategories++
				continue
			}
			if !errors.Is(err, domain.ErrCategoryNotFound) {
				return err
			}
			if err := repos.Categories().Create(ctx, c); err != nil {
				return fmt.Errorf("create category %q: %w", c.Name, err)
			}
			result.Categories++
		}

		for _, a := range articles {
			exists, err := repos.Articles().ExistsByTitle(ctx, a.Title)
			if err != nil {
				return fmt.Errorf("look up article %q: %w", a.Title, err)
			}
			if exists {
				result.SkippedArticles++
				continue
			}
			if err := repos.Articles().Create(ctx, a); err != nil {
				return fmt.Errorf("create article %q: %w", a.Title, err)
			}
			result.Articles++
		}

		all, err := repos.Categories().List(ctx)
		if err != nil {
			return err
		}
		for _, c := range all {
			if err := repos.Categories().RecomputeCount(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return result, nil
}

func seedArticle(fa SeedArticle, id string, now time.Time) *domain.Article {
	a := &domain.Article{
		ID:          id,
		Title:       fa.Title,
		Content:     fa.Content,
		Application: fa.Application,
		ErrorCode:   fa.ErrorCode,
		Category:    domain.ParseCategory(fa.Category),
		Tags:        fa.Tags,
		Author:      fa.Author,
		Views:       fa.Views,
		Helpful:     fa.Helpful,
		Versions:    []domain.VersionSnapshot{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if fa.Severity != "" {
		a.Severity = domain.ParseSeverity(fa.Severity)
	}
	if fa.Status != "" {
		a.Status = domain.ParseStatus(fa.Status)
	}
	a.ApplyDefaults()
	a.Normalize()
	return a
}
