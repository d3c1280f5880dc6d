// Package admin implements the techwikid subcommands.
package admin

import (
	"context"
	"fmt"
	"os"

	"github.com/cloo-solutions/techwiki/internal/api"
	"github.com/cloo-solutions/techwiki/internal/config"
	"github.com/cloo-solutions/techwiki/internal/database"
	"github.com/cloo-solutions/techwiki/internal/logger"
	"github.com/cloo-solutions/techwiki/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// loadConfig reads the environment and installs the process logger. One-shot
// commands log to stderr so stdout stays free for their output.
func loadConfig(toStderr bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if toStderr {
		logger.SetLogger(logger.New(os.Stderr, cfg.Debug))
	} else {
		logger.Setup(cfg.Debug)
	}
	api.SetExposeErrors(cfg.ExposeErrors())

	return cfg, nil
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := database.NewPool(ctx, database.Config{
		URL:              cfg.DatabaseURL,
		MaxConns:         cfg.DBMaxConns,
		ApplicationName:  "techwikid",
		StatementTimeout: cfg.DBStatementTimeout,
		PingAttempts:     cfg.DBPingAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

func newS3Client(ctx context.Context, cfg *config.Config) (*storage.S3Client, error) {
	client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := client.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure S3 bucket: %w", err)
	}
	return client, nil
}
