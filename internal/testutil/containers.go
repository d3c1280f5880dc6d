// Package testutil starts the containers used by integration and e2e tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/cloo-solutions/techwiki/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "postgres:16-alpine"
	rustfsImage   = "rustfs/rustfs:latest"

	// RustFSAccessKey and RustFSSecretKey are the credentials the RustFS
	// container is started with.
	RustFSAccessKey = "rustfsadmin"
	RustFSSecretKey = "rustfsadmin"
)

// PostgresContainer is a throwaway techwiki database.
type PostgresContainer struct {
	container *postgres.PostgresContainer
	url       string
}

func NewPostgresContainer(ctx context.Context, t *testing.T) *PostgresContainer {
	t.Helper()

	c, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("techwiki"),
		postgres.WithUsername("techwiki"),
		postgres.WithPassword("techwiki"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	return &PostgresContainer{container: c, url: url}
}

func (pc *PostgresContainer) ConnectionString() string {
	return pc.url
}

func (pc *PostgresContainer) Terminate(ctx context.Context) error {
	return testcontainers.TerminateContainer(pc.container)
}

// NewTestPool migrates the container's database to the latest schema and
// returns a pool connected to it.
func NewTestPool(ctx context.Context, t *testing.T, pc *PostgresContainer) *pgxpool.Pool {
	t.Helper()

	if err := database.Migrate(pc.ConnectionString(), database.Up); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	pool, err := database.NewPool(ctx, database.Config{
		URL:             pc.ConnectionString(),
		MaxConns:        8,
		ApplicationName: "techwiki-test",
		PingAttempts:    5,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	return pool
}

// TruncateAll empties every table between tests.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE TABLE articles, categories`)
	return err
}

// RustFSContainer is an S3-compatible store for export tests.
type RustFSContainer struct {
	container testcontainers.Container
	endpoint  string
}

func NewRustFSContainer(ctx context.Context, t *testing.T) *RustFSContainer {
	t.Helper()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        rustfsImage,
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"RUSTFS_ACCESS_KEY": RustFSAccessKey,
				"RUSTFS_SECRET_KEY": RustFSSecretKey,
			},
			WaitingFor: wait.ForListeningPort("9000/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start rustfs container: %v", err)
	}

	endpoint, err := c.PortEndpoint(ctx, "9000/tcp", "http")
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		t.Fatalf("failed to resolve rustfs endpoint: %v", err)
	}

	return &RustFSContainer{container: c, endpoint: endpoint}
}

// Endpoint returns the http://host:port S3 endpoint.
func (rc *RustFSContainer) Endpoint() string {
	return rc.endpoint
}

func (rc *RustFSContainer) Terminate(ctx context.Context) error {
	return testcontainers.TerminateContainer(rc.container)
}
