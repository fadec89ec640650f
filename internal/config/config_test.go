package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable applyEnvOverrides reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_BASE_URL", "CONTENTFLOW_API_URL", "CONTENTFLOW_API_TIMEOUT",
		"CONTENTFLOW_TRANSPORT", "CONTENTFLOW_HOST", "CONTENTFLOW_PORT", "CONTENTFLOW_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func writeTOML(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Transport != TransportStdio {
		t.Errorf("expected default transport stdio, got %s", cfg.Server.Transport)
	}
	if cfg.Server.Port != 4250 {
		t.Errorf("expected default port 4250, got %d", cfg.Server.Port)
	}
	if cfg.API.URL != "http://localhost:5001/api" {
		t.Errorf("expected default api url, got %s", cfg.API.URL)
	}
	if cfg.API.GetTimeout() != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.API.GetTimeout())
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("expected metrics enabled at /metrics, got %+v", cfg.Metrics)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 4250 {
		t.Errorf("expected default port 4250, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	clearEnv(t)

	path := writeTOML(t, "test.toml", `
[server]
name = "content-relay"
transport = "http"
host = "0.0.0.0"
port = 9090

[api]
url = "http://content-api:5001/api/"
timeout = "5s"

[metrics]
enabled = false

[logging]
level = "debug"
outputs = ["console", "file"]
`)

	cfg, err := LoadFromFiles(path)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Name != "content-relay" {
		t.Errorf("expected name content-relay, got %s", cfg.Server.Name)
	}
	if cfg.Server.Transport != TransportHTTP {
		t.Errorf("expected http transport, got %s", cfg.Server.Transport)
	}
	if cfg.Server.Addr() != "0.0.0.0:9090" {
		t.Errorf("expected addr 0.0.0.0:9090, got %s", cfg.Server.Addr())
	}
	if cfg.API.BaseURL() != "http://content-api:5001/api" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.API.BaseURL())
	}
	if cfg.API.GetTimeout() != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.API.GetTimeout())
	}
	if cfg.Metrics.Enabled {
		t.Error("expected metrics disabled")
	}
	if cfg.Logging.Level != "debug" || len(cfg.Logging.Outputs) != 2 {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	clearEnv(t)

	base := writeTOML(t, "base.toml", `
[api]
url = "http://base:5001/api"
timeout = "10s"
`)
	override := writeTOML(t, "override.toml", `
[api]
url = "http://override:5001/api"
`)

	cfg, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.API.URL != "http://override:5001/api" {
		t.Errorf("expected override url, got %s", cfg.API.URL)
	}
	if cfg.API.Timeout != "10s" {
		t.Errorf("expected timeout from base file, got %s", cfg.API.Timeout)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	clearEnv(t)

	path := writeTOML(t, "bad.toml", "[server\nport = ")
	_, err := LoadFromFiles(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "http://legacy:5001/api")
	t.Setenv("CONTENTFLOW_API_TIMEOUT", "45s")
	t.Setenv("CONTENTFLOW_TRANSPORT", "HTTP")
	t.Setenv("CONTENTFLOW_PORT", "7000")
	t.Setenv("CONTENTFLOW_LOG_LEVEL", "warn")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.API.URL != "http://legacy:5001/api" {
		t.Errorf("expected API_BASE_URL override, got %s", cfg.API.URL)
	}
	if cfg.API.GetTimeout() != 45*time.Second {
		t.Errorf("expected 45s, got %s", cfg.API.GetTimeout())
	}
	if cfg.Server.Transport != TransportHTTP {
		t.Errorf("expected transport lower-cased to http, got %s", cfg.Server.Transport)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected port 7000, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected warn, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_ContentflowURLBeatsLegacyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "http://legacy:5001/api")
	t.Setenv("CONTENTFLOW_API_URL", "http://primary:5001/api")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.API.URL != "http://primary:5001/api" {
		t.Errorf("expected CONTENTFLOW_API_URL to win, got %s", cfg.API.URL)
	}
}

func TestLoadFromFiles_InvalidPortEnvIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTENTFLOW_PORT", "not-a-port")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Server.Port != 4250 {
		t.Errorf("expected default port retained, got %d", cfg.Server.Port)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, "HTTP", "127.0.0.1", 8088)

	if cfg.Server.Transport != TransportHTTP {
		t.Errorf("expected http, got %s", cfg.Server.Transport)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8088 {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}

	ApplyFlagOverrides(cfg, "", "", 0)
	if cfg.Server.Port != 8088 {
		t.Errorf("zero-value flags must not override, got %d", cfg.Server.Port)
	}
}

func TestGetTimeout_InvalidFallsBack(t *testing.T) {
	for _, raw := range []string{"", "soon", "-5s", "0s"} {
		c := APIConfig{Timeout: raw}
		if got := c.GetTimeout(); got != 30*time.Second {
			t.Errorf("timeout %q: expected 30s fallback, got %s", raw, got)
		}
	}
}

func TestMaxResponseBytes(t *testing.T) {
	c := APIConfig{MaxResponseMB: 2}
	if c.MaxResponseBytes() != 2<<20 {
		t.Errorf("expected 2MB, got %d", c.MaxResponseBytes())
	}
	c.MaxResponseMB = 0
	if c.MaxResponseBytes() != 50<<20 {
		t.Errorf("expected 50MB default, got %d", c.MaxResponseBytes())
	}
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cfg.Server.Transport = "sse"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unsupported transport error")
	}

	cfg = NewDefaultConfig()
	cfg.API.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected empty url error")
	}

	cfg = NewDefaultConfig()
	cfg.API.URL = "localhost:5001/api"
	if err := cfg.Validate(); err == nil {
		t.Error("expected scheme error")
	}
}

func TestLoadFromFiles_FlagsCanFixInvalidTransport(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTENTFLOW_TRANSPORT", "sse")

	path := writeTOML(t, "bad-transport.toml", "[server]\ntransport = \"websocket\"\n")
	cfg, err := LoadFromFiles(path)
	if err != nil {
		t.Fatalf("load should not validate: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unsupported transport before flags")
	}

	ApplyFlagOverrides(cfg, "HTTP", "", 0)
	if err := cfg.Validate(); err != nil {
		t.Errorf("flag override should make config valid: %v", err)
	}
	if cfg.Server.Transport != TransportHTTP {
		t.Errorf("expected http transport, got %s", cfg.Server.Transport)
	}
}
