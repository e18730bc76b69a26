package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/testutil"
	"github.com/funaging/themestudio/internal/themes"
)

// testThemesEnv returns the full server handler with the Theme API mounted.
func testThemesEnv(t *testing.T) http.Handler {
	t.Helper()

	ctx := context.Background()
	themeStore, err := themes.NewStore(ctx, testutil.NewStore(t), zap.NewNop())
	if err != nil {
		t.Fatalf("themes.NewStore: %v", err)
	}
	svc := themes.NewService(themeStore, nil, zap.NewNop())
	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	cfg := DefaultConfig()
	cfg.RateLimitRPS = 0
	return New(cfg, zap.NewNop(), nil, false, themes.NewHandler(svc, zap.NewNop())).Handler()
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestMalformedJSON(t *testing.T) {
	h := testThemesEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"truncated object", `{"name": "x"`},
		{"array instead of object", `["name"]`},
		{"wrong type for name", `{"name": 42}`},
		{"settings as string", `{"name": "x", "settings": "dark"}`},
		{"trailing garbage", `{"name": }}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(h, "POST", "/api/v1/themes", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d; body = %s", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

func TestOversizedPayload(t *testing.T) {
	h := testThemesEnv(t)

	body := `{"name": "` + strings.Repeat("a", 2<<20) + `"}`
	w := send(h, "POST", "/api/v1/themes", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDeeplyNestedSettings(t *testing.T) {
	h := testThemesEnv(t)

	var nested strings.Builder
	depth := 500
	for i := 0; i < depth; i++ {
		nested.WriteString(`{"nested":`)
	}
	nested.WriteString(`"value"`)
	for i := 0; i < depth; i++ {
		nested.WriteString(`}`)
	}

	w := send(h, "POST", "/api/v1/themes", `{"name": "deep", "settings": `+nested.String()+`}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUnicodeNames(t *testing.T) {
	h := testThemesEnv(t)

	names := []string{"ธีมคลาสสิก", "Café Crème", "テーマ", "😀 Happy"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]any{"name": name})
			w := send(h, "POST", "/api/v1/themes", string(body))
			if w.Code != http.StatusCreated {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
			}
			var got map[string]any
			_ = json.NewDecoder(w.Body).Decode(&got)
			if got["name"] != name {
				t.Errorf("name = %v, want %q", got["name"], name)
			}
		})
	}
}

func TestPathEdgeCases(t *testing.T) {
	h := testThemesEnv(t)

	paths := []string{
		"/api/v1/themes/..%2F..%2Fetc%2Fpasswd",
		"/api/v1/themes/%27%20OR%20%271%27%3D%271",
		"/api/v1/themes/%3Cscript%3Ealert(1)%3C%2Fscript%3E/export",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			req := httptest.NewRequest("GET", p, http.NoBody)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
			}
		})
	}
}

func TestErrorResponseFormat(t *testing.T) {
	h := testThemesEnv(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{"unknown theme", "GET", "/api/v1/themes/missing", "", http.StatusNotFound},
		{"invalid create", "POST", "/api/v1/themes", `{}`, http.StatusBadRequest},
		{"invalid preview flag", "POST", "/api/v1/themes/missing/apply?preview=perhaps", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(h, tt.method, tt.path, tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q, want application/problem+json", ct)
			}
			var p map[string]any
			if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
				t.Fatalf("decode problem: %v", err)
			}
			for _, field := range []string{"type", "title", "status", "detail"} {
				if _, ok := p[field]; !ok {
					t.Errorf("problem missing %q field", field)
				}
			}
		})
	}
}
