// Package client implements the techwiki command line client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	requestIDHeader = "X-Request-ID"
	requestTimeout  = 30 * time.Second
)

// APIClient talks to the techwiki HTTP API and unwraps its envelope.
type APIClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewAPIClientWithCmd resolves the base URL from the --api-url flag, the
// environment (including a .env file) and the user config file.
func NewAPIClientWithCmd(cmd *cobra.Command) (*APIClient, error) {
	_ = godotenv.Load()

	var flagURL string
	if cmd != nil {
		flagURL, _ = cmd.Flags().GetString("api-url")
	}
	baseURL, _, err := ResolveAPIURL(flagURL)
	if err != nil {
		return nil, err
	}

	c := NewAPIClientWithConfig(baseURL)
	if cmd != nil && cmd.Root().Version != "" {
		c.userAgent = "techwiki/" + cmd.Root().Version
	}
	return c, nil
}

// NewAPIClientWithConfig creates an APIClient for an explicit base URL.
func NewAPIClientWithConfig(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "techwiki",
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// APIResponse is the success envelope.
type APIResponse struct {
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the data payload into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// APIError is a non-2xx answer. Code, Fields and RequestID are filled when
// the server sent them.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     map[string]string
	RequestID  string
}

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, name := range sortedKeys(e.Fields) {
			parts = append(parts, name+": "+e.Fields[name])
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	if e.StatusCode >= http.StatusInternalServerError && e.RequestID != "" {
		msg += " [request " + e.RequestID + "]"
	}
	return msg
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func (c *APIClient) Get(ctx context.Context, path string, query url.Values) (*APIResponse, error) {
	return c.do(ctx, http.MethodGet, withQuery(path, query), nil)
}

func (c *APIClient) Post(ctx context.Context, path string, body any) (*APIResponse, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *APIClient) Put(ctx context.Context, path string, body any) (*APIResponse, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *APIClient) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body any) (*APIResponse, error) {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newAPIError(resp, raw)
	}

	var out APIResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &out, nil
}

// newAPIError falls back to the raw body when the server (or a proxy in
// front of it) did not answer with the JSON error envelope.
func newAPIError(resp *http.Response, raw []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get(requestIDHeader),
	}
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil || eb.Error == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}
	apiErr.Message = eb.Error
	apiErr.Code = eb.Code
	apiErr.Fields = eb.Fields
	return apiErr
}

func withQuery(path string, query url.Values) string {
	clean := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			if v != "" {
				clean.Add(k, v)
			}
		}
	}
	if len(clean) == 0 {
		return path
	}
	return path + "?" + clean.Encode()
}

func articlePath(id string, suffix ...string) string {
	return "/api/articles/" + strings.Join(append([]string{url.PathEscape(id)}, suffix...), "/")
}
