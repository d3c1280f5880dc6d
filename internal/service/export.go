package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/storage"
	"github.com/cloo-solutions/techwiki/internal/telemetry"
)

const (
	// ExportContentType is the MIME type of an uploaded snapshot.
	ExportContentType = "application/json"
	// ExportPrefix is where snapshots live inside the bucket.
	ExportPrefix = "exports/"
)

// ExportArticleRepository reads every article with its version log.
type ExportArticleRepository interface {
	ListAll(ctx context.Context) ([]*domain.Article, error)
}

// ExportCategoryRepository reads every category.
type ExportCategoryRepository interface {
	List(ctx context.Context) ([]*domain.Category, error)
}

// ObjectStore keeps uploaded snapshots.
type ObjectStore interface {
	PutObject(ctx context.Context, obj storage.Object) error
	ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
}

// Snapshot is a point-in-time dump of the knowledge base.
type Snapshot struct {
	ExportedAt time.Time          `json:"exportedAt"`
	Articles   []*domain.Article  `json:"articles"`
	Categories []*domain.Category `json:"categories"`
}

// ExportService builds JSON snapshots and writes them to a file or object store.
type ExportService struct {
	articles   ExportArticleRepository
	categories ExportCategoryRepository
	store      ObjectStore
	now        func() time.Time
}

// NewExportService creates an ExportService. store may be nil when only local
// output is used.
func NewExportService(articles ExportArticleRepository, categories ExportCategoryRepository, store ObjectStore) *ExportService {
	return &ExportService{
		articles:   articles,
		categories: categories,
		store:      store,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Build reads the full article and category sets.
func (s *ExportService) Build(ctx context.Context) (*Snapshot, error) {
	ctx, span := telemetry.StartSpan(ctx, "ExportService.Build", telemetry.SpanAttributes{
		Operation: "export",
	})
	defer span.End()

	articles, err := s.articles.ListAll(ctx)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("list articles: %w", err)
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if articles == nil {
		articles = []*domain.Article{}
	}
	if categories == nil {
		categories = []*domain.Category{}
	}

	return &Snapshot{
		ExportedAt: s.now(),
		Articles:   articles,
		Categories: categories,
	}, nil
}

// WriteTo encodes snap as indented JSON.
func (s *ExportService) WriteTo(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// Upload stores snap under key and returns the key used. An empty key gets a
// timestamped default.
func (s *ExportService) Upload(ctx context.Context, key string, snap *Snapshot) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	if key == "" {
		key = DefaultExportKey(snap.ExportedAt)
	}

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	err = s.store.PutObject(ctx, storage.Object{
		Key:         key,
		ContentType: ExportContentType,
		Body:        body,
		Metadata: map[string]string{
			"articles":    strconv.Itoa(len(snap.Articles)),
			"categories":  strconv.Itoa(len(snap.Categories)),
			"exported-at": snap.ExportedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		telemetry.CaptureError(ctx, err)
		return "", err
	}

	telemetry.AddBreadcrumb(ctx, "export", fmt.Sprintf("uploaded %d articles to %s", len(snap.Articles), key))
	return key, nil
}

// ListSnapshots returns previously uploaded snapshots, newest first.
func (s *ExportService) ListSnapshots(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.store == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	objects, err := s.store.ListObjects(ctx, ExportPrefix)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return objects, nil
}

// DefaultExportKey names a snapshot after its export time.
func DefaultExportKey(at time.Time) string {
	return ExportPrefix + "techwiki-" + at.UTC().Format("20060102T150405Z") + ".json"
}
