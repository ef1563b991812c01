package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/chanroute/pkg/cache"
	errs "github.com/matzehuels/chanroute/pkg/errors"
	"github.com/matzehuels/chanroute/pkg/observability"
	"github.com/matzehuels/chanroute/pkg/pipeline"
	"github.com/matzehuels/chanroute/pkg/store"
)

const scenarioA = `{"pins": {"top": [1, 0, 2, 0, 3, 4], "bottom": [1, 0, 0, 2, 4, 3]}}`

func newTestServer(t *testing.T, withStore bool, cfg Config) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)

	var st store.Store
	if withStore {
		fs, err := store.NewFileStore(t.TempDir())
		require.NoError(t, err)
		st = fs
	}
	ts := httptest.NewServer(New(runner, st, logger, cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func do(t *testing.T, ts *httptest.Server, method, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, false, Config{})
	resp := do(t, ts, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[HealthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Build.Version)
}

func TestRouteAndRecordLifecycle(t *testing.T) {
	ts := newTestServer(t, true, Config{})

	resp := post(t, ts, "/v1/route", scenarioA)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	routed := decode[RouteResponse](t, resp)
	require.NotEmpty(t, routed.ID)
	assert.Equal(t, 3, routed.Stats.Width)
	assert.Equal(t, 4, routed.Stats.Nets)
	assert.Len(t, routed.Graph.Nets, 4)
	assert.Len(t, routed.GraphHash, 64)
	assert.False(t, routed.Cached)

	resp = do(t, ts, http.MethodGet, "/v1/routes/"+routed.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[store.Record](t, resp)
	assert.Equal(t, routed.ID, rec.ID)
	assert.Equal(t, []int{1, 0, 2, 0, 3, 4}, rec.Pins.Top)
	assert.Equal(t, routed.Stats, rec.Stats)

	resp = do(t, ts, http.MethodGet, "/v1/routes?limit=5")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]store.Record](t, resp), 1)

	resp = do(t, ts, http.MethodDelete, "/v1/routes/"+routed.ID)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/v1/routes/"+routed.ID)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errs.ErrCodeNotFound, decode[errorBody](t, resp).Error.Code)
}

func TestRouteExample(t *testing.T) {
	ts := newTestServer(t, true, Config{})
	resp := post(t, ts, "/v1/route", `{"example": "dense"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	routed := decode[RouteResponse](t, resp)

	resp = do(t, ts, http.MethodGet, "/v1/routes/"+routed.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[store.Record](t, resp)
	assert.Len(t, rec.Pins.Top, 8, "stored record should hold the resolved example pins")
}

func TestRouteErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   errs.Code
	}{
		{"Empty", ``, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"Malformed", `{"pins":`, http.StatusBadRequest, errs.ErrCodeInvalidFormat},
		{"UnknownField", `{"pinz": {}}`, http.StatusBadRequest, errs.ErrCodeInvalidFormat},
		{"RowMismatch", `{"pins": {"top": [1, 2], "bottom": [1]}}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"BadConfig", `{"pins": {"top": [1], "bottom": [1]}, "max_tries": -1}`, http.StatusBadRequest, errs.ErrCodeInvalidConfig},
		{"UnknownExample", `{"example": "nope"}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{
			"Exhausted",
			`{"pins": {"top": [1, 0, 2, 0, 3, 4], "bottom": [1, 0, 0, 2, 4, 3]}, "max_tries": 2, "length_factor": 1}`,
			http.StatusUnprocessableEntity, errs.ErrCodeRetriesExhausted,
		},
	}

	ts := newTestServer(t, false, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/route", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Equal(t, tt.code, decode[errorBody](t, resp).Error.Code)
		})
	}
}

func TestRouteBodyTooLarge(t *testing.T) {
	ts := newTestServer(t, false, Config{MaxBodyBytes: 16})
	resp := post(t, ts, "/v1/route", scenarioA)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errs.ErrCodeInvalidInput, decode[errorBody](t, resp).Error.Code)
}

func TestRouteLimits(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"TooManyTries", `{"example": "simple", "max_tries": 1000000}`, http.StatusBadRequest},
		{"LengthFactorTooLarge", `{"example": "simple", "length_factor": 1e9}`, http.StatusBadRequest},
		{"AtLimit", `{"example": "simple", "max_tries": 5, "length_factor": 3}`, http.StatusOK},
	}

	ts := newTestServer(t, false, Config{MaxTries: 5, MaxLengthFactor: 3})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/route", tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				body := decode[errorBody](t, resp)
				assert.Equal(t, errs.ErrCodeInvalidConfig, body.Error.Code)
				assert.Contains(t, body.Error.Message, "server limit")
			}
		})
	}
}

func TestRouteExhaustedNamesPins(t *testing.T) {
	ts := newTestServer(t, false, Config{})
	resp := post(t, ts, "/v1/route",
		`{"pins": {"top": [1, 0, 2, 0, 3, 4], "bottom": [1, 0, 0, 2, 4, 3]}, "max_tries": 2, "length_factor": 1}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	msg := decode[errorBody](t, resp).Error.Message
	assert.Contains(t, msg, "top [1 0 2 0 3 4]")
	assert.Contains(t, msg, "bottom [1 0 0 2 4 3]")
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, false, Config{})

	resp := post(t, ts, "/v1/render/txt", `{"pins": {"top": [1, 0, 2, 0, 3, 4], "bottom": [1, 0, 0, 2, 4, 3]}, "style": "plain"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "1   2   3 4"), "plot:\n%s", body)
	assert.Len(t, resp.Header.Get("X-Graph-Hash"), 64)

	resp = post(t, ts, "/v1/render/dot", scenarioA)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/vnd.graphviz", resp.Header.Get("Content-Type"))
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("graph G {")))

	resp = post(t, ts, "/v1/render/json", scenarioA)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestRenderRejectsFormat(t *testing.T) {
	ts := newTestServer(t, false, Config{})

	resp := post(t, ts, "/v1/render/gif", scenarioA)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errs.ErrCodeInvalidFormat, decode[errorBody](t, resp).Error.Code)

	// A text plot cannot be drawn as DOT.
	resp = post(t, ts, "/v1/render/dot", `{"pins": {"top": [1], "bottom": [1]}, "viz_type": "text"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errs.ErrCodeInvalidConfig, decode[errorBody](t, resp).Error.Code)
}

func TestRoutesWithoutStore(t *testing.T) {
	ts := newTestServer(t, false, Config{})
	for _, path := range []string{"/v1/routes", "/v1/routes/00000000-0000-0000-0000-000000000000"} {
		resp := do(t, ts, http.MethodGet, path)
		assert.Equal(t, http.StatusNotImplemented, resp.StatusCode, path)
		assert.Equal(t, errs.ErrCodeUnsupported, decode[errorBody](t, resp).Error.Code)
	}
}

func TestListRoutesBadLimit(t *testing.T) {
	ts := newTestServer(t, true, Config{})
	resp := do(t, ts, http.MethodGet, "/v1/routes?limit=many")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/v1/routes")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]store.Record](t, resp))
}

func TestGetRouteBadID(t *testing.T) {
	ts := newTestServer(t, true, Config{})
	resp := do(t, ts, http.MethodGet, "/v1/routes/not-an-id")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type recordingServerHooks struct {
	mu     sync.Mutex
	routes []string
}

func (h *recordingServerHooks) OnRequest(context.Context, string, string) {}

func (h *recordingServerHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, fmt.Sprintf("%s %s %d", method, route, status))
}

func TestServerHooksUseRoutePattern(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	hooks := &recordingServerHooks{}
	observability.SetServerHooks(hooks)

	ts := newTestServer(t, true, Config{})
	do(t, ts, http.MethodGet, "/v1/routes/00000000-0000-0000-0000-000000000000")
	do(t, ts, http.MethodGet, "/healthz")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []string{
		"GET /v1/routes/{id} 404",
		"GET /healthz 200",
	}, hooks.routes)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeInvalidPath, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errs.New(errs.ErrCodeUnroutable, "x"), http.StatusUnprocessableEntity},
		{errs.New(errs.ErrCodeNetwork, "x"), http.StatusBadGateway},
		{errs.New(errs.ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{errs.New(errs.ErrCodeInvariant, "x"), http.StatusInternalServerError},
		{fmt.Errorf("route: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
