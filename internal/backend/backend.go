// Package backend selects the remote task service from configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"tasksync/internal/backend/googletasks"
	"tasksync/internal/backend/rest"
	"tasksync/internal/config"
	"tasksync/internal/service"
)

// New returns the service.Service named by cfg.Backend.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendREST, "":
		c, err := rest.New(cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.BackendGoogleTasks:
		c, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
