package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Listen != ":5001" {
		t.Errorf("expected :5001, got %s", cfg.Listen)
	}
	if cfg.History.Enabled {
		t.Error("expected history disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_HISTORY_DB", "/tmp/estimates.db")

	content := `
listen: ":9090"
log:
  level: debug
  format: text
server:
  read_timeout: 30s
cors:
  origins:
    - https://calc.example.com
history:
  enabled: true
  db_path: ${TEST_HISTORY_DB}
  retention_days: 30
`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Listen)
	}
	if cfg.History.DBPath != "/tmp/estimates.db" {
		t.Errorf("env var not expanded: got %s", cfg.History.DBPath)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected 30s read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 15*time.Second {
		t.Errorf("expected default write timeout to survive, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("expected text log format, got %s", cfg.Log.Format)
	}
	if !cfg.History.Enabled || cfg.History.RetentionDays != 30 {
		t.Errorf("unexpected history config: %+v", cfg.History)
	}
	if len(cfg.CORS.Origins) != 1 || cfg.CORS.Origins[0] != "https://calc.example.com" {
		t.Errorf("unexpected origins: %v", cfg.CORS.Origins)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":           "8181",
		"CODESPACE_NAME": "fuzzy-lamp",
		"GITHUB_CODESPACES_PORT_FORWARDING_DOMAIN": "preview.app.github.dev",
		"CLIENT_URL": "https://ui.example.com",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Listen != ":8181" {
		t.Errorf("expected :8181, got %s", cfg.Listen)
	}
	if !cfg.Environment.InCodespace() {
		t.Error("expected codespace environment")
	}
	want := []string{
		"http://localhost:3000",
		"https://fuzzy-lamp-3000.preview.app.github.dev",
		"https://fuzzy-lamp-3000.app.github.dev",
		"https://ui.example.com",
	}
	if !slices.Equal(cfg.CORS.Origins, want) {
		t.Errorf("origins = %v, want %v", cfg.CORS.Origins, want)
	}

	// Applying twice must not duplicate origins.
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if len(cfg.CORS.Origins) != len(want) {
		t.Errorf("expected %d origins after reapplying, got %d", len(want), len(cfg.CORS.Origins))
	}
}

func TestApplyEnvEmpty(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(func(string) string { return "" })
	if cfg.Listen != ":5001" {
		t.Errorf("listen should be unchanged, got %s", cfg.Listen)
	}
	if cfg.Environment.InCodespace() {
		t.Error("expected no codespace")
	}
	if len(cfg.CORS.Origins) != 1 {
		t.Errorf("expected only the default origin, got %v", cfg.CORS.Origins)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "xml"
	cfg.Server.MaxBodyBytes = 0
	cfg.History.Enabled = true
	cfg.History.DBPath = ""
	cfg.History.CleanupSchedule = "sometimes"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"log.format", "max_body_bytes", "history.db_path", "history.cleanup_schedule"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error, got: %v", want, err)
		}
	}
}

func TestValidateMetricsListener(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Listen = cfg.Listen
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "metrics.listen") {
		t.Fatalf("expected metrics.listen error, got %v", err)
	}

	cfg.Metrics.Listen = ":9090"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Metrics.Separate() {
		t.Error("expected separate metrics listener")
	}

	cfg.Metrics.Enabled = false
	if cfg.Metrics.Separate() {
		t.Error("disabled metrics must not get a listener")
	}
}
