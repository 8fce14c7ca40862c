package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/booklib-api/internal/config"
	"github.com/phrazzld/booklib-api/internal/platform/logger"
)

// setupAppLogger installs the JSON logger configured by cfg as the default.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	logConfig(cfg, l)
	return l, nil
}
