package cli

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPHandler(t *testing.T) {
	cfg := Config{Server: ServerConfig{Metrics: true, Validation: true}}
	h, err := NewHTTPHandler(cfg)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/actions", strings.NewReader(`{"type":"INC"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rewind_actions_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNewHTTPHandler_WithoutMetrics(t *testing.T) {
	h, err := NewHTTPHandler(Config{})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
