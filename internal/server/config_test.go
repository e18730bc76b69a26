package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := v.GetInt("server.port"); got != 8080 {
		t.Errorf("server.port = %d, want 8080", got)
	}
	if got := v.GetDuration("gateway.timeout"); got != 3*time.Second {
		t.Errorf("gateway.timeout = %v, want 3s", got)
	}
	if !v.GetBool("themes.seed_presets") {
		t.Error("themes.seed_presets = false, want true")
	}
	if got := v.GetString("database.path"); got != "./data/themestudio.db" {
		t.Errorf("database.path = %q", got)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themestudio.yaml")
	data := []byte("server:\n  port: 9191\neditor:\n  dev_mode: true\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("TS_GATEWAY_TIMEOUT", "7s")

	v, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := v.GetInt("server.port"); got != 9191 {
		t.Errorf("server.port = %d, want 9191", got)
	}
	if !v.GetBool("editor.dev_mode") {
		t.Error("editor.dev_mode = false, want true")
	}
	if got := v.GetDuration("gateway.timeout"); got != 7*time.Second {
		t.Errorf("gateway.timeout = %v, want 7s", got)
	}
}

func TestLoadConfig_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themestudio.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestConfigAddr(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want %q", got, "0.0.0.0:8080")
	}
}
