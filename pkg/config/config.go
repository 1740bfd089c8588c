package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/pario-ai/premiumcalc/pkg/models"
)

// DefaultClientOrigin is the local development UI origin, always allowed.
const DefaultClientOrigin = "http://localhost:3000"

// Config holds all premiumcalc configuration.
type Config struct {
	Listen      string               `yaml:"listen"`
	Log         LogConfig            `yaml:"log"`
	Server      ServerConfig         `yaml:"server"`
	CORS        CORSConfig           `yaml:"cors"`
	Metrics     MetricsConfig        `yaml:"metrics"`
	History     models.HistoryConfig `yaml:"history"`
	Environment EnvironmentInfo      `yaml:"-"`
}

// LogConfig controls log output.
// Format is "json" (default) or "text".
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig holds HTTP server limits.
type ServerConfig struct {
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

// MetricsConfig controls the Prometheus endpoint.
// When Listen is set, metrics are served on that address instead of the API
// listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Listen  string `yaml:"listen"`
}

// Separate reports whether metrics get their own listener.
func (m MetricsConfig) Separate() bool {
	return m.Enabled && m.Listen != "" && m.Path != ""
}

// EnvironmentInfo describes the hosting environment, as reported by the
// health endpoint. It is populated from the process environment only.
type EnvironmentInfo struct {
	Codespace string
	Domain    string
}

// InCodespace reports whether both Codespaces variables are set.
func (e EnvironmentInfo) InCodespace() bool {
	return e.Codespace != "" && e.Domain != ""
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen: ":5001",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		CORS: CORSConfig{
			Origins: []string{DefaultClientOrigin},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		History: models.HistoryConfig{
			Enabled:       false,
			DBPath:        "premiumcalc.db",
			RetentionDays: 90,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv applies process environment overrides: PORT replaces the listen
// port, and Codespaces forwarding URLs plus CLIENT_URL are added to the CORS
// origins.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		c.Listen = ":" + port
	}

	c.Environment = EnvironmentInfo{
		Codespace: getenv("CODESPACE_NAME"),
		Domain:    getenv("GITHUB_CODESPACES_PORT_FORWARDING_DOMAIN"),
	}

	origins := []string{DefaultClientOrigin}
	if c.Environment.InCodespace() {
		origins = append(origins,
			fmt.Sprintf("https://%s-3000.%s", c.Environment.Codespace, c.Environment.Domain),
			fmt.Sprintf("https://%s-3000.app.github.dev", c.Environment.Codespace),
		)
	}
	if u := getenv("CLIENT_URL"); u != "" {
		origins = append(origins, u)
	}
	for _, o := range origins {
		if !slices.Contains(c.CORS.Origins, o) {
			c.CORS.Origins = append(c.CORS.Origins, o)
		}
	}
}

// Validate checks for values the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must not be negative"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}
	if c.History.Enabled && c.History.DBPath == "" {
		errs = append(errs, errors.New("history.db_path is required when history is enabled"))
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		errs = append(errs, errors.New("metrics.path is required when metrics are enabled"))
	}
	if c.Metrics.Listen != "" && c.Metrics.Listen == c.Listen {
		errs = append(errs, errors.New("metrics.listen must differ from listen"))
	}
	if c.History.RetentionDays < 0 {
		errs = append(errs, errors.New("history.retention_days must not be negative"))
	}
	if c.History.CleanupSchedule != "" {
		if _, err := cron.ParseStandard(c.History.CleanupSchedule); err != nil {
			errs = append(errs, fmt.Errorf("history.cleanup_schedule: %w", err))
		}
	}
	return errors.Join(errs...)
}
