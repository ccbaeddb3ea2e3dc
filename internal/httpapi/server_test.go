package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgraph-dev/tg/internal/access"
	"github.com/taskgraph-dev/tg/internal/httpapi"
	"github.com/taskgraph-dev/tg/internal/manager"
	"github.com/taskgraph-dev/tg/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.New(context.Background(), t.TempDir()+"/test.db", nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	mgr := manager.New(store, access.New(nil, nil))
	srv := httpapi.NewServer(mgr, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := ts.Client().Post(ts.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateAndGetListOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/lists", map[string]any{
		"list_key": "roadmap",
		"title":    "Roadmap",
		"actor":    "tester",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, true, env["success"])

	getResp, err := ts.Client().Get(ts.URL + "/lists/roadmap")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
	getEnv := decodeEnvelope(t, getResp)
	data := getEnv["data"].(map[string]any)
	assert.Equal(t, "roadmap", data["list_key"])
}

func TestGetListMissingReturns404(t *testing.T) {
	ts := newTestServer(t)
	resp, err := ts.Client().Get(ts.URL + "/lists/nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, false, env["success"])
}

func TestCreateDuplicateListReturns400(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/lists", map[string]any{"list_key": "roadmap", "title": "Roadmap"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	dup := postJSON(t, ts, "/lists", map[string]any{"list_key": "roadmap", "title": "Roadmap Again"})
	assert.Equal(t, http.StatusBadRequest, dup.StatusCode)
}

func TestAddItemAndSetStatusOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/lists", map[string]any{"list_key": "roadmap", "title": "Roadmap"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	itemResp := postJSON(t, ts, "/lists/roadmap/items", map[string]any{
		"item_key": "design",
		"content":  "design the API",
		"actor":    "tester",
	})
	require.Equal(t, http.StatusCreated, itemResp.StatusCode)
	itemResp.Body.Close()

	statusResp := postJSON(t, ts, "/lists/roadmap/items/design/status", map[string]any{
		"status": "in_progress",
		"actor":  "tester",
	})
	require.Equal(t, http.StatusOK, statusResp.StatusCode)
	env := decodeEnvelope(t, statusResp)
	data := env["data"].(map[string]any)
	assert.Equal(t, "in_progress", data["status"])
}

func TestNextPendingOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/lists", map[string]any{"list_key": "roadmap", "title": "Roadmap"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	itemResp := postJSON(t, ts, "/lists/roadmap/items", map[string]any{"item_key": "a", "content": "a"})
	require.Equal(t, http.StatusCreated, itemResp.StatusCode)
	itemResp.Body.Close()

	nextResp, err := ts.Client().Get(ts.URL + "/lists/roadmap/next")
	require.NoError(t, err)
	env := decodeEnvelope(t, nextResp)
	data := env["data"].(map[string]any)
	assert.Equal(t, "a", data["item_key"])
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := ts.Client().Get(ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
