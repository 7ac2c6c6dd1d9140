package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	upgerr "github.com/matzehuels/upgrader/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[registry]
url = "https://npm.example.com/"
timeout = "3s"
retries = 3
rate_limit = 2.5
burst = 4

[check]
concurrency = 16

[server]
addr = "127.0.0.1:9000"
session_ttl = "15m"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Registry.URL != "https://npm.example.com/" {
		t.Errorf("Registry.URL = %q", cfg.Registry.URL)
	}
	if cfg.Registry.Timeout != 3*time.Second {
		t.Errorf("Registry.Timeout = %v, want 3s", cfg.Registry.Timeout)
	}
	if cfg.Registry.Retries != 3 || cfg.Registry.RateLimit != 2.5 || cfg.Registry.Burst != 4 {
		t.Errorf("Registry = %+v", cfg.Registry)
	}
	if cfg.Check.Concurrency != 16 {
		t.Errorf("Check.Concurrency = %d, want 16", cfg.Check.Concurrency)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.SessionTTL != 15*time.Minute {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "[check]\nconcurrency = 2\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	d := Default()
	if cfg.Registry != d.Registry {
		t.Errorf("Registry = %+v, want defaults %+v", cfg.Registry, d.Registry)
	}
	if cfg.Server != d.Server {
		t.Errorf("Server = %+v, want defaults %+v", cfg.Server, d.Server)
	}
	if cfg.Check.Concurrency != 2 {
		t.Errorf("Check.Concurrency = %d, want 2", cfg.Check.Concurrency)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Registry.URL != Default().Registry.URL {
		t.Errorf("Registry.URL = %q, want default", cfg.Registry.URL)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "upgrader"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "upgrader", "config.toml"), []byte("[server]\naddr = \":9999\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got, want := DefaultPath(), filepath.Join(dir, "upgrader", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q, want :9999", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    upgerr.Code
	}{
		{"syntax", "[registry\nurl = 1", upgerr.ErrCodeInvalidConfig},
		{"unknown key", "[registry]\nmirror = \"x\"\n", upgerr.ErrCodeInvalidConfig},
		{"bad url", "[registry]\nurl = \"ftp://example.com\"\n", upgerr.ErrCodeInvalidConfig},
		{"negative concurrency", "[check]\nconcurrency = -1\n", upgerr.ErrCodeInvalidConfig},
		{"negative rate", "[registry]\nrate_limit = -1.0\n", upgerr.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !upgerr.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !upgerr.Is(err, upgerr.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("UPGRADER_REGISTRY_URL", "http://localhost:4873")
	t.Setenv("UPGRADER_REGISTRY_TIMEOUT", "250ms")
	t.Setenv("UPGRADER_REGISTRY_RATE_LIMIT", "10")
	t.Setenv("UPGRADER_CHECK_CONCURRENCY", "not-a-number")
	t.Setenv("UPGRADER_SERVER_SESSION_TTL", "2h")

	cfg := Default()
	applied := ApplyEnvOverrides(cfg)

	if cfg.Registry.URL != "http://localhost:4873" {
		t.Errorf("Registry.URL = %q", cfg.Registry.URL)
	}
	if cfg.Registry.Timeout != 250*time.Millisecond {
		t.Errorf("Registry.Timeout = %v", cfg.Registry.Timeout)
	}
	if cfg.Registry.RateLimit != 10 {
		t.Errorf("Registry.RateLimit = %v", cfg.Registry.RateLimit)
	}
	if cfg.Check.Concurrency != Default().Check.Concurrency {
		t.Errorf("unparsable override should be ignored, got %d", cfg.Check.Concurrency)
	}
	if cfg.Server.SessionTTL != 2*time.Hour {
		t.Errorf("Server.SessionTTL = %v", cfg.Server.SessionTTL)
	}
	if len(applied) != 4 {
		t.Errorf("applied = %v, want 4 entries", applied)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("UPGRADER_SERVER_ADDR", ":7000")
	cfg, err := Load(writeConfig(t, "[server]\naddr = \":9000\"\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q, want :7000", cfg.Server.Addr)
	}
	if len(cfg.Overrides) != 1 || cfg.Overrides[0] != "UPGRADER_SERVER_ADDR" {
		t.Errorf("Overrides = %v", cfg.Overrides)
	}
}
