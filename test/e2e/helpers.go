//go:build e2e

// Package e2e drives the built techwiki binaries and the HTTP API against
// real Postgres and RustFS containers.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloo-solutions/techwiki/internal/api/handlers"
	"github.com/cloo-solutions/techwiki/internal/repository"
	"github.com/cloo-solutions/techwiki/internal/server"
	"github.com/cloo-solutions/techwiki/internal/service"
	"github.com/cloo-solutions/techwiki/internal/storage"
	"github.com/cloo-solutions/techwiki/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
)

const s3Bucket = "techwiki-e2e"

// E2ETestEnv is one isolated techwiki deployment: database, bucket, API
// server and, once BuildBinaries has run, both command line tools.
type E2ETestEnv struct {
	T         *testing.T
	Ctx       context.Context
	Pool      *pgxpool.Pool
	S3Client  *storage.S3Client
	BinaryDir string

	dbURL      string
	s3Endpoint string
	api        *httptest.Server
}

// SetupE2EEnv starts the containers and the API. Everything is torn down by
// t.Cleanup, in reverse order.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	t.Helper()
	ctx := context.Background()

	pg := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })
	rustfs := testutil.NewRustFSContainer(ctx, t)
	t.Cleanup(func() { _ = rustfs.Terminate(ctx) })

	pool := testutil.NewTestPool(ctx, t, pg)
	t.Cleanup(pool.Close)

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        rustfs.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     testutil.RustFSAccessKey,
		SecretAccessKey: testutil.RustFSSecretKey,
		Bucket:          s3Bucket,
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("s3 client: %v", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		t.Fatalf("create bucket %s: %v", s3Bucket, err)
	}

	api := httptest.NewServer(newRouter(pool))
	t.Cleanup(api.Close)

	return &E2ETestEnv{
		T:          t,
		Ctx:        ctx,
		Pool:       pool,
		S3Client:   s3Client,
		dbURL:      pg.ConnectionString(),
		s3Endpoint: rustfs.Endpoint(),
		api:        api,
	}
}

func newRouter(pool *pgxpool.Pool) http.Handler {
	articles := repository.NewArticleRepository(pool)
	categories := repository.NewCategoryRepository(pool)

	return server.NewRouter(server.RouterConfig{
		HealthHandler:   handlers.NewHealthHandler(pool),
		ArticleHandler:  handlers.NewArticleHandler(service.NewArticleService(articles)),
		CategoryHandler: handlers.NewCategoryHandler(service.NewCategoryService(categories)),
		SearchHandler:   handlers.NewSearchHandler(service.NewSearchService(articles)),
	})
}

// Reset empties both tables between subtests.
func (e *E2ETestEnv) Reset() {
	e.T.Helper()
	if err := testutil.TruncateAll(e.Ctx, e.Pool); err != nil {
		e.T.Fatalf("truncate: %v", err)
	}
}

// BuildBinaries compiles techwikid and techwiki into a per-test directory.
func (e *E2ETestEnv) BuildBinaries() {
	e.T.Helper()
	e.BinaryDir = e.T.TempDir()

	for _, name := range []string{"techwikid", "techwiki"} {
		build := exec.Command("go", "build", "-o", filepath.Join(e.BinaryDir, name), "./cmd/"+name)
		build.Dir = filepath.Join("..", "..")
		if out, err := build.CombinedOutput(); err != nil {
			e.T.Fatalf("go build %s: %v\n%s", name, err, out)
		}
	}
}

func (e *E2ETestEnv) clientEnv() []string {
	return []string{
		"TECHWIKI_API_URL=" + e.api.URL,
		"TECHWIKI_EDITOR=e2e",
		"XDG_CONFIG_HOME=" + e.BinaryDir,
	}
}

func (e *E2ETestEnv) daemonEnv() []string {
	return []string{
		"TECHWIKI_DATABASE_URL=" + e.dbURL,
		"TECHWIKI_S3_ENDPOINT=" + e.s3Endpoint,
		"TECHWIKI_S3_ACCESS_KEY_ID=" + testutil.RustFSAccessKey,
		"TECHWIKI_S3_SECRET_ACCESS_KEY=" + testutil.RustFSSecretKey,
		"TECHWIKI_S3_BUCKET=" + s3Bucket,
	}
}

// RunTechwiki runs the client against the test API.
func (e *E2ETestEnv) RunTechwiki(args ...string) (string, error) {
	return e.exec("techwiki", nil, e.clientEnv(), args)
}

// RunTechwikiWithInput runs the client with input piped to stdin.
func (e *E2ETestEnv) RunTechwikiWithInput(input string, args ...string) (string, error) {
	return e.exec("techwiki", strings.NewReader(input), e.clientEnv(), args)
}

// RunTechwikid runs a daemon subcommand against the test database and bucket.
func (e *E2ETestEnv) RunTechwikid(args ...string) (string, error) {
	return e.exec("techwikid", nil, e.daemonEnv(), args)
}

// exec returns stdout, or stdout followed by stderr when the command fails.
func (e *E2ETestEnv) exec(binary string, stdin io.Reader, env, args []string) (string, error) {
	ctx, cancel := context.WithTimeout(e.Ctx, 2*time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, filepath.Join(e.BinaryDir, binary), args...)
	cmd.Dir = e.BinaryDir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String() + stderr.String(), err
	}
	return stdout.String(), nil
}

// APIResponse is a decoded envelope plus the HTTP status.
type APIResponse struct {
	Status int
	Data   json.RawMessage   `json:"data"`
	Error  string            `json:"error,omitempty"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Decode unmarshals Data into v or fails the test.
func (r *APIResponse) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Data, v); err != nil {
		t.Fatalf("decode %s: %v", r.Data, err)
	}
}

func (e *E2ETestEnv) Get(path string) *APIResponse { return e.call(http.MethodGet, path, nil) }

func (e *E2ETestEnv) Post(path string, body any) *APIResponse {
	return e.call(http.MethodPost, path, body)
}

func (e *E2ETestEnv) Put(path string, body any) *APIResponse {
	return e.call(http.MethodPut, path, body)
}

func (e *E2ETestEnv) Delete(path string) *APIResponse { return e.call(http.MethodDelete, path, nil) }

// call fails the test on transport errors only; callers assert on Status.
func (e *E2ETestEnv) call(method, path string, body any) *APIResponse {
	e.T.Helper()

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			e.T.Fatalf("encode %s %s body: %v", method, path, err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(e.Ctx, method, e.api.URL+path, payload)
	if err != nil {
		e.T.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.api.Client().Do(req)
	if err != nil {
		e.T.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		e.T.Fatalf("read %s %s: %v", method, path, err)
	}

	out := &APIResponse{Status: resp.StatusCode}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			e.T.Fatalf("%s %s returned %q: %v", method, path, raw, err)
		}
	}
	return out
}

// Download fetches a presigned URL.
func (e *E2ETestEnv) Download(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
