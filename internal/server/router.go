package server

import (
	"net/http"

	"github.com/cloo-solutions/techwiki/internal/api"
	"github.com/cloo-solutions/techwiki/internal/api/handlers"
	"github.com/cloo-solutions/techwiki/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes int64 = 2 * 1024 * 1024

type RouterConfig struct {
	CORSOrigins     []string
	HealthHandler   *handlers.HealthHandler
	ArticleHandler  *handlers.ArticleHandler
	CategoryHandler *handlers.CategoryHandler
	SearchHandler   *handlers.SearchHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.Metrics)
	r.Use(middleware.AccessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusNotFound, "route not found")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", cfg.HealthHandler.Health)

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", cfg.ArticleHandler.List)
			r.Post("/", cfg.ArticleHandler.Create)
			r.Get("/stats/popular", cfg.ArticleHandler.Popular)
			r.Get("/{id}", cfg.ArticleHandler.Get)
			r.Put("/{id}", cfg.ArticleHandler.Update)
			r.Delete("/{id}", cfg.ArticleHandler.Delete)
			r.Get("/{id}/versions", cfg.ArticleHandler.Versions)
			r.Post("/{id}/helpful", cfg.ArticleHandler.MarkHelpful)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", cfg.CategoryHandler.List)
			r.Post("/", cfg.CategoryHandler.Create)
			r.Post("/update-counts", cfg.CategoryHandler.RecomputeCounts)
			// the bundled web client triggers the refresh with a GET
			r.Get("/update-counts", cfg.CategoryHandler.RecomputeCounts)
			r.Get("/stats", cfg.CategoryHandler.Statistics)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/", cfg.SearchHandler.Search)
			r.Get("/applications/list", cfg.SearchHandler.Applications)
			r.Get("/errorcodes/list", cfg.SearchHandler.ErrorCodes)
			r.Get("/tags/list", cfg.SearchHandler.Tags)
			r.Get("/suggestions", cfg.SearchHandler.Suggestions)
		})
	})

	return r
}
