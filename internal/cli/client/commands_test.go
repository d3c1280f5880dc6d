package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// fakeAPI answers every request with a canned JSON body per "METHOD path".
type fakeAPI struct {
	mu        sync.Mutex
	requests  []recordedRequest
	responses map[string]string
	status    map[string]int
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	useTempConfig(t)
	f := &fakeAPI{responses: map[string]string{}, status: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		key := r.Method + " " + r.URL.Path

		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Body: body})
		resp, ok := f.responses[key]
		status := f.status[key]
		f.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"route not found"}`))
			return
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) on(method, path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+path] = body
}

func (f *fakeAPI) onStatus(method, path string, status int, body string) {
	f.on(method, path, body)
	f.mu.Lock()
	f.status[method+" "+path] = status
	f.mu.Unlock()
}

func (f *fakeAPI) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "techwiki", SilenceUsage: true, SilenceErrors: true}
	AddGlobalFlags(root)
	AddCommands(root)
	return root
}

// runCLI executes a fresh command tree against srv. Callers set up the
// config dir through newFakeAPI first.
func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--api-url", srv.URL}, args...))

	err := root.Execute()
	return out.String(), err
}

const articleJSON = `{"id":"a-1","title":"RFC timeout","content":"restart the gateway","application":"SAP",
"errorCode":"RFC_ERROR","category":"error","tags":["rfc","sap"],"severity":"high","status":"published",
"author":"Alice","views":4,"helpful":2,"createdAt":"2024-03-01T10:00:00Z","updatedAt":"2024-03-01T10:00:00Z",
"versions":[{"content":"v0","editedBy":"Alice","editedAt":"2024-02-01T10:00:00Z","changeDescription":"first"}]}`

func TestListCmd_SendsFiltersWithAliases(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on(http.MethodGet, "/api/articles", `{"data":{"articles":[`+articleJSON+`],"pagination":{"total":11,"page":2,"pages":2}}}`)

	out, err := runCLI(t, srv, "list", "--category", "incidencia", "--severity", "alta",
		"--tag", "sap", "--tag", "rfc", "--sort", "-views", "--page", "2", "-a", "SAP")
	require.NoError(t, err)

	req := api.last(t)
	assert.Equal(t, "incident", req.Query.Get("category"))
	assert.Equal(t, "high", req.Query.Get("severity"))
	assert.Equal(t, "sap,rfc", req.Query.Get("tags"))
	assert.Equal(t, "-views", req.Query.Get("sort"))
	assert.Equal(t, "2", req.Query.Get("page"))
	assert.Equal(t, "SAP", req.Query.Get("application"))
	assert.False(t, req.Query.Has("limit"))
	assert.False(t, req.Query.Has("status"))

	assert.Contains(t, out, "1. RFC timeout")
	assert.Contains(t, out, "Tags: rfc, sap")
	assert.Contains(t, out, "page 2/2")
}

func TestListCmd_RejectsUnknownEnum(t *testing.T) {
	_, srv := newFakeAPI(t)

	_, err := runCLI(t, srv, "list", "--severity", "urgent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}

func TestListCmd_Empty(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on(http.MethodGet, "/api/articles", `{"data":{"articles":[],"pagination":{"total":0,"page":1,"pages":0}}}`)

	out, err := runCLI(t, srv, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No articles found.")
}

func TestGetCmd(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on(http.MethodGet, "/api/articles/a-1", `{"data":`+articleJSON+`}`)

	out, err := runCLI(t, srv, "get", "a-1")
	require.NoError(t, err)
	assert.Contains(t, out, "# RFC timeout")
	assert.Contains(t, out, "Error code:  RFC_ERROR")
	assert.Contains(t, out, "restart the gateway")

	out, err = runCLI(t, srv, "get", "a-1", "--output")
	require.NoError(t, err)
	var a Article
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, "a-1", a.ID)
	require.Len(t, a.Versions, 1)
}

func TestGetCmd_NotFound(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.onStatus(http.MethodGet, "/api/articles/missing", http.StatusNotFound, `{"error":"article not found"}`)

	_, err := runCLI(t, srv, "get", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "article missing does not exist")
	assert.Contains(t, err.Error(), "API error (404): article not found")
	assert.True(t, IsNotFound(err))
}

func TestVersionsCmd(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on(http.MethodGet, "/api/articles/a-1/versions",
		`{"data":{"title":"RFC timeout","versions":[{"content":"v1","editedBy":"Alice","editedAt":"2024-03-01T10:00:00Z","changeDescription":"fix typo"}]}}`)

	out, err := runCLI(t, srv, "versions", "a-1", "--full")
	require.NoError(t, err)
	assert.Contains(t, out, "v1  2024-03-01T10:00:00Z  by Alice  (fix typo)")
	assert.Contains(t, out, "\nv1\n")
}

func TestCreateCmd_UsesConfiguredEditor(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.onStatus(http.MethodPost, "/api/articles", http.StatusCreated, `{"data":`+articleJSON+`}`)
	t.Setenv(envEditor, "Bob")

	out, err := runCLI(t, srv, "create", "--title", "RFC timeout", "--application", "SAP",
		"--category", "error", "--content", "restart the gateway", "--severity", "critica")
	require.NoError(t, err)
	assert.Contains(t, out, "Created RFC timeout (a-1)")

	req := api.last(t)
	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "Bob", body["author"])
	assert.Equal(t, "critical", body["severity"])
	assert.Equal(t, []any{}, body["tags"])
	assert.NotContains(t, body, "status")
}

func TestCreateCmd_RequiresTitle(t *testing.T) {
	_, srv := newFakeAPI(t)

	_, err := runCLI(t, srv, "create", "--application", "SAP", "--category", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestEditCmd_SendsOnlyChangedFields(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on(http.MethodPut, "/api/articles/a-1", `{"data":`+articleJSON+`}`)

	out, err := runCLI(t, srv, "edit", "a-1", "--title", "New title", "--save-version",
		"-m", "fix typo", "--edited-by", "Carol", "--tag", "rfc")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated a-1 (1 saved versions)")

	req := api.last(t)
	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "New title", body["title"])
	assert.Equal(t, true, body["saveVersion"])
	assert.Equal(t, "fix typo", body["changeDescription"])
	assert.Equal(t, "Carol", body["editedBy"])
	assert.Equal(t, []any{"rfc"}, body["tags"])
	assert.NotContains(t, body, "content")
	assert.NotContains(t, body, "category")
}

func TestEditCmd_ValidationFields(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.onStatus(http.MethodPut, "/api/articles/a-1", http.StatusBadRequest,
		`{"error":"invalid article","fields":{"title":"is required"}}`)

	_, err := runCLI(t, srv, "edit", "a-1", "--title", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title: is required")
}

func TestHelpfulAndDelete(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on(http.MethodPost, "/api/articles/a-1/helpful", `{"data":{"helpful":3}}`)
	api.on(http.MethodDelete, "/api/articles/a-1", `{"data":{"message":"article deleted"}}`)

	out, err := runCLI(t, srv, "helpful", "a-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Marked helpful (3 total)")

	out, err = runCLI(t, srv, "delete", "a-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted a-1")
	assert.Equal(t, http.MethodDelete, api.last(t).Method)
}

func TestSearchCmd(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on(http.MethodGet, "/api/search", `{"data":{"results":[`+articleJSON+`],"count":1,"total":1,"page":1,"pages":1,"query":{"q":"rfc"}}}`)

	out, err := runCLI(t, srv, "search", "rfc", "--category", "solucion")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 results")

	req := api.last(t)
	assert.Equal(t, "rfc", req.Query.Get("q"))
	assert.Equal(t, "solution", req.Query.Get("category"))
}

func TestSuggestAndValueLists(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on(http.MethodGet, "/api/search/suggestions", `{"data":["SAP","SAP GUI"]}`)
	api.on(http.MethodGet, "/api/search/tags/list", `{"data":["rfc","sap"]}`)
	api.on(http.MethodGet, "/api/search/applications/list", `{"data":["SAP"]}`)
	api.on(http.MethodGet, "/api/search/errorcodes/list", `{"data":["RFC_ERROR"]}`)

	out, err := runCLI(t, srv, "suggest", "sa", "--field", "application")
	require.NoError(t, err)
	assert.Equal(t, "SAP\nSAP GUI\n", out)
	assert.Equal(t, "application", api.last(t).Query.Get("field"))
	assert.Equal(t, "sa", api.last(t).Query.Get("q"))

	out, err = runCLI(t, srv, "tags")
	require.NoError(t, err)
	assert.Equal(t, "rfc\nsap\n", out)

	out, err = runCLI(t, srv, "applications", "--output")
	require.NoError(t, err)
	assert.JSONEq(t, `["SAP"]`, out)

	out, err = runCLI(t, srv, "errorcodes")
	require.NoError(t, err)
	assert.Equal(t, "RFC_ERROR\n", out)
}

func TestCategoriesCmds(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.on(http.MethodGet, "/api/categories", `{"data":[{"id":"c-1","name":"SAP","description":"ERP","articleCount":3}]}`)
	api.on(http.MethodGet, "/api/categories/stats", `{"data":[{"_id":"error","count":2,"totalViews":10,"avgHelpful":1.5}]}`)
	api.on(http.MethodPost, "/api/categories/update-counts", `{"data":{"message":"category counts updated","categories":[{"id":"c-1","name":"SAP","articleCount":4}]}}`)
	api.onStatus(http.MethodPost, "/api/categories", http.StatusCreated, `{"data":{"id":"c-2","name":"Redes"}}`)

	out, err := runCLI(t, srv, "categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SAP")
	assert.Contains(t, out, "ERP")

	out, err = runCLI(t, srv, "categories", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "1.5")

	out, err = runCLI(t, srv, "categories", "refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "category counts updated")
	assert.Contains(t, out, "4")

	out, err = runCLI(t, srv, "categories", "create", "Redes", "--color", "#10B981")
	require.NoError(t, err)
	assert.Contains(t, out, "Category created: Redes (c-2)")

	var body map[string]string
	require.NoError(t, json.Unmarshal(api.last(t).Body, &body))
	assert.Equal(t, "Redes", body["name"])
	assert.Equal(t, "#10B981", body["color"])
}

func TestConfigCmds(t *testing.T) {
	_, srv := newFakeAPI(t)

	root := newRoot()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"config", "set", "--url", srv.URL, "--editor", "Dana"})
	require.NoError(t, root.Execute())

	config, err := LoadGlobalConfig()
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, srv.URL, config.APIURL)
	assert.Equal(t, "Dana", config.Editor)

	var out bytes.Buffer
	show := newRoot()
	show.SetOut(&out)
	show.SetArgs([]string{"config", "show"})
	require.NoError(t, show.Execute())
	assert.Contains(t, out.String(), "API URL: "+srv.URL+" (global_config)")
	assert.Contains(t, out.String(), "Editor:  Dana")

	empty := newRoot()
	empty.SetOut(io.Discard)
	empty.SetArgs([]string{"config", "set"})
	assert.Error(t, empty.Execute())
}
