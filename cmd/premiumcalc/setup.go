package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pario-ai/premiumcalc/pkg/config"
	"github.com/pario-ai/premiumcalc/pkg/history"
)

// loadConfig returns defaults when path is empty, otherwise the parsed file,
// with environment overrides applied and validated.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// openHistory opens the history store when history is enabled. The returned
// store is nil otherwise, and cleanup is always safe to call.
func openHistory(cfg *config.Config) (*history.Store, func(), error) {
	if !cfg.History.Enabled {
		return nil, func() {}, nil
	}
	store, err := history.New(cfg.History)
	if err != nil {
		return nil, nil, fmt.Errorf("init history: %w", err)
	}
	return store, func() { _ = store.Close() }, nil
}
