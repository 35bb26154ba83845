package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/rewind/internal/demo"
	"github.com/aretw0/rewind/pkg/observability"
	"github.com/aretw0/rewind/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *store.Store[demo.Counter]) {
	t.Helper()
	s := store.New(demo.Reduce, store.WithID("test"))
	h, err := NewHandler(s, opts...)
	require.NoError(t, err)
	return h, s
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) StateResponse[demo.Counter] {
	t.Helper()
	var resp StateResponse[demo.Counter]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "Rewind API", doc.Info.Title)
	assert.NotNil(t, doc.Paths.Find("/goto/{index}"))
}

func TestServer_TimeTravel(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "POST", "/actions", `{"type":"INC"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decodeState(t, w).Base.Value)

	w = do(t, h, "POST", "/commit", `{"message":"one"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st := decodeState(t, w)
	assert.Equal(t, 2, st.Len)
	assert.Equal(t, "one", st.Message)

	w = do(t, h, "POST", "/actions", `{"type":"ADD","payload":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, decodeState(t, w).Base.Value)

	w = do(t, h, "POST", "/undo", "")
	require.Equal(t, http.StatusOK, w.Code)
	st = decodeState(t, w)
	assert.Equal(t, 0, st.Base.Value)
	assert.Equal(t, 1, st.Head)

	w = do(t, h, "POST", "/redo", "")
	require.Equal(t, http.StatusOK, w.Code)
	st = decodeState(t, w)
	assert.Equal(t, 1, st.Base.Value)
	assert.Equal(t, 0, st.Head)

	w = do(t, h, "POST", "/goto/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeState(t, w).Head)

	w = do(t, h, "GET", "/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decodeState(t, w).Base.Value)
}

func TestServer_GetHistory(t *testing.T) {
	h, s := newTestHandler(t)
	_, err := s.Commit(t.Context(), "snap")
	require.NoError(t, err)

	w := do(t, h, "GET", "/history", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Head int `json:"head"`
		Log  []struct {
			Message string       `json:"message"`
			State   demo.Counter `json:"state"`
		} `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Head)
	require.Len(t, body.Log, 2)
	assert.Equal(t, "snap", body.Log[0].Message)
}

func TestServer_GotoOutOfRange(t *testing.T) {
	h, s := newTestHandler(t)
	before := s.State()

	w := do(t, h, "POST", "/goto/5", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var e ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, "out_of_range", e.Reason)
	assert.Equal(t, before.History.Head(), s.State().History.Head())
	assert.Equal(t, before.History.Len(), s.State().History.Len())
}

func TestServer_BadRequests(t *testing.T) {
	tests := []struct {
		name       string
		validation bool
		method     string
		path       string
		body       string
	}{
		{"malformed json", true, "POST", "/actions", `{"type":`},
		{"missing type", true, "POST", "/actions", `{"payload":1}`},
		{"commit without message", true, "POST", "/commit", `{}`},
		{"goto not an integer", true, "POST", "/goto/abc", ""},
		{"goto not an integer without validation", false, "POST", "/goto/abc", ""},
		{"commit payload not a string without validation", false, "POST", "/actions", `{"type":"@@rewind/COMMIT","payload":3}`},
		{"missing type without validation", false, "POST", "/actions", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s := newTestHandler(t, WithRequestValidation(tt.validation))
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, 1, s.State().History.Len())
		})
	}
}

func TestServer_OpenAPIAndInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("openapi:")))

	w = do(t, h, "GET", "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "rewind-http", info["app"])
	assert.Equal(t, "test", info["store_id"])
	assert.Equal(t, "0.1.0", info["api_version"])

	w = do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t)
	w := do(t, h, "OPTIONS", "/commit", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	s := store.New(demo.Reduce, store.WithID("metrics"), store.WithLifecycleHooks(m.Hooks()))
	h, err := NewHandler(s, WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, do(t, h, "POST", "/undo", "").Code)

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `rewind_actions_total{kind="undo",store_id="metrics"} 1`)
}

func TestServer_CommitMessageSanitized(t *testing.T) {
	tests := []struct {
		name string
		path string
		body func(msg string) string
	}{
		{"commit", "/commit", func(msg string) string { return `{"message":"` + msg + `"}` }},
		{"actions", "/actions", func(msg string) string { return `{"type":"@@rewind/COMMIT","payload":"` + msg + `"}` }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s := newTestHandler(t)

			w := do(t, h, "POST", tt.path, tt.body(`two\nlines\u001b`))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "two lines", decodeState(t, w).Message)

			w = do(t, h, "POST", tt.path, tt.body(strings.Repeat("x", 5000)))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 2, s.State().History.Len())
		})
	}
}

func TestServer_GetHistoryGraph(t *testing.T) {
	h, s := newTestHandler(t)
	_, err := s.Commit(t.Context(), "snap")
	require.NoError(t, err)

	w := do(t, h, "GET", "/history/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `e0["snap <br/> {'value':0}"]`)
	assert.Contains(t, w.Body.String(), "class e0 current;")
}
