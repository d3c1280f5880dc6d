// Package telemetry reports traces and server-side failures to Sentry.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/logger"
	"github.com/getsentry/sentry-go"
)

const (
	serverName   = "techwikid"
	flushTimeout = 5 * time.Second
)

type Config struct {
	DSN              string
	Environment      string
	Release          string
	TracesSampleRate float64
	Debug            bool
}

// Init configures the global Sentry client and returns a flush function.
// An empty DSN, or a DSN Sentry rejects, leaves telemetry disabled.
func Init(cfg Config) (func(), error) {
	noop := func() {}
	if cfg.DSN == "" {
		return noop, nil
	}
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		ServerName:       serverName,
		Debug:            cfg.Debug,
		EnableTracing:    true,
		TracesSampleRate: cfg.TracesSampleRate,
		TracesSampler: func(ctx sentry.SamplingContext) float64 {
			if isHealthCheck(ctx.Span.Name) {
				return 0
			}
			// honour an upstream decision carried in sentry-trace
			switch ctx.Span.Sampled {
			case sentry.SampledTrue:
				return 1
			case sentry.SampledFalse:
				return 0
			}
			return cfg.TracesSampleRate
		},
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if hint != nil && !ShouldReport(hint.OriginalException) {
				return nil
			}
			return event
		},
	})
	if err != nil {
		return noop, fmt.Errorf("sentry init: %w", err)
	}

	logger.Info("sentry tracing initialized",
		slog.String("environment", cfg.Environment),
		slog.String("release", cfg.Release),
		slog.Float64("sample_rate", cfg.TracesSampleRate),
	)
	return func() { sentry.Flush(flushTimeout) }, nil
}

func isHealthCheck(name string) bool {
	return strings.HasSuffix(name, "/api/health") || strings.HasSuffix(name, "/metrics")
}

// ShouldReport is false for errors caused by the caller: validation failures
// and unknown ids. Those are answered with 4xx and never reach Sentry.
func ShouldReport(err error) bool {
	if err == nil {
		return true
	}
	return !domain.IsValidation(err) && !domain.IsNotFound(err) && !errors.Is(err, context.Canceled)
}

// SpanAttributes are the article-level tags a service span may carry.
type SpanAttributes struct {
	ArticleID string
	Category  string
	Operation string
	Query     string
}

// Span is nil-safe so services can trace unconditionally.
type Span struct {
	inner *sentry.Span
}

func (s *Span) End() {
	if s.inner != nil {
		s.inner.Finish()
	}
}

func (s *Span) SetData(key string, value interface{}) {
	if s.inner != nil {
		s.inner.SetData(key, value)
	}
}

// SetError records err on the span. Only errors worth reporting are sent to
// Sentry as exceptions.
func (s *Span) SetError(err error) {
	if s.inner == nil || err == nil {
		return
	}
	switch {
	case domain.IsValidation(err):
		s.inner.Status = sentry.SpanStatusInvalidArgument
	case domain.IsNotFound(err):
		s.inner.Status = sentry.SpanStatusNotFound
	case errors.Is(err, context.Canceled):
		s.inner.Status = sentry.SpanStatusCanceled
	default:
		s.inner.Status = sentry.SpanStatusInternalError
		CaptureError(s.inner.Context(), err)
	}
}

// StartSpan opens a child of the span already in ctx, or a new transaction
// when there is none (CLI commands, background jobs).
func StartSpan(ctx context.Context, name string, attrs SpanAttributes) (context.Context, *Span) {
	var span *sentry.Span
	if parent := sentry.SpanFromContext(ctx); parent != nil {
		span = parent.StartChild(name)
	} else {
		span = sentry.StartSpan(ctx, name, sentry.WithTransactionName(name))
	}

	if attrs.ArticleID != "" {
		span.SetTag("article_id", attrs.ArticleID)
	}
	if attrs.Category != "" {
		span.SetTag("category", attrs.Category)
	}
	if attrs.Operation != "" {
		span.SetData("operation", attrs.Operation)
	}
	if attrs.Query != "" {
		span.SetData("search.query", attrs.Query)
	}

	return span.Context(), &Span{inner: span}
}

func CaptureError(ctx context.Context, err error) {
	if !ShouldReport(err) {
		return
	}
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}

func AddBreadcrumb(ctx context.Context, category, message string) {
	crumb := &sentry.Breadcrumb{
		Category:  category,
		Message:   message,
		Level:     sentry.LevelInfo,
		Timestamp: time.Now(),
	}
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.AddBreadcrumb(crumb, nil)
		return
	}
	sentry.AddBreadcrumb(crumb)
}
