package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/booklib-api/internal/config"
	"github.com/phrazzld/booklib-api/internal/redact"
)

// loadAppConfig loads and validates configuration.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logConfig records the effective configuration without secrets.
func logConfig(cfg *config.Config, logger *slog.Logger) {
	logger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("environment", cfg.Server.Environment),
		slog.Int("book_queue_concurrency", cfg.Queue.BookConcurrency),
		slog.Bool("rate_limit_enabled", cfg.RateLimit.Enabled))
	logger.Debug("database configuration",
		slog.String("url", redact.DatabaseURL(cfg.Database.URL)),
		slog.Int("max_open_conns", cfg.Database.MaxOpenConns))
}
