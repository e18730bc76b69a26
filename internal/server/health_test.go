package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, srv *Server, path string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	var body map[string]any
	if w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	}
	return w.Code, body
}

func TestHealthz(t *testing.T) {
	code, body := probe(t, newTestServer(nil), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", body["status"])
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name   string
		ready  ReadinessChecker
		code   int
		status string
	}{
		{"no checker", nil, http.StatusOK, "ready"},
		{"healthy", func(context.Context) error { return nil }, http.StatusOK, "ready"},
		{"unhealthy", func(context.Context) error { return errors.New("database unreachable") }, http.StatusServiceUnavailable, "not ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := probe(t, newTestServer(tt.ready), "/readyz")
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.status, body["status"])
			if tt.code != http.StatusOK {
				assert.Equal(t, "database unreachable", body["error"])
			}
		})
	}
}

func TestHealth(t *testing.T) {
	code, body := probe(t, newTestServer(nil), "/api/v1/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "themestudio", body["service"])
	assert.NotNil(t, body["version"])
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(nil)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
