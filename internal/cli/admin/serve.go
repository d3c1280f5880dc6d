package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/techwiki/internal/api/handlers"
	"github.com/cloo-solutions/techwiki/internal/config"
	"github.com/cloo-solutions/techwiki/internal/database"
	"github.com/cloo-solutions/techwiki/internal/jobs"
	"github.com/cloo-solutions/techwiki/internal/logger"
	"github.com/cloo-solutions/techwiki/internal/metrics"
	"github.com/cloo-solutions/techwiki/internal/repository"
	"github.com/cloo-solutions/techwiki/internal/server"
	"github.com/cloo-solutions/techwiki/internal/service"
	"github.com/cloo-solutions/techwiki/internal/telemetry"
	"github.com/spf13/cobra"
)

const (
	poolStatsInterval = 15 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the techwiki API server, applying pending migrations first",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides TECHWIKI_PORT)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

// initTelemetry starts Sentry when a DSN is configured. A failed init is
// logged and the server runs without tracing.
func initTelemetry(cfg *config.Config, release string) func() {
	if !cfg.HasSentry() {
		return func() {}
	}
	flush, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          release,
		TracesSampleRate: cfg.TracesSampleRate(),
		Debug:            cfg.Debug,
	})
	if err != nil {
		logger.Warn("telemetry init failed (continuing without tracing)", slog.Any("error", err))
	}
	return flush
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}

	defer initTelemetry(cfg, "techwiki@"+cmd.Root().Version)()

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	if noMigrate, _ := cmd.Flags().GetBool("no-migrate"); !noMigrate {
		if err := database.Migrate(cfg.DatabaseURL, database.Up); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to database", slog.Int("max_conns", int(cfg.DBMaxConns)))

	poolStats := metrics.NewPoolStatsCollector(pool)
	poolStats.Start(poolStatsInterval)
	defer poolStats.Stop()

	articleRepo := repository.NewArticleRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)

	articleSvc := service.NewArticleService(articleRepo)
	searchSvc := service.NewSearchService(articleRepo)
	categorySvc := service.NewCategoryService(categoryRepo)

	router := server.NewRouter(server.RouterConfig{
		CORSOrigins:     cfg.CORSOrigins,
		HealthHandler:   handlers.NewHealthHandler(pool),
		ArticleHandler:  handlers.NewArticleHandler(articleSvc),
		CategoryHandler: handlers.NewCategoryHandler(categorySvc),
		SearchHandler:   handlers.NewSearchHandler(searchSvc),
	})

	var refresher *jobs.Worker
	if cfg.CategoryRefreshInterval > 0 {
		refresher = jobs.NewWorker("category-refresh", jobs.NewCategoryCountRefresher(categorySvc),
			cfg.CategoryRefreshInterval, jobs.RunImmediately())
		go refresher.Start(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("port", cfg.Port), slog.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	if refresher != nil {
		refresher.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
