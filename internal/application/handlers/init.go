// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/universe-core/internal/domain/ports"
	"github.com/ersonp/universe-core/internal/domain/services"
	"github.com/ersonp/universe-core/internal/infrastructure/config"
)

// DBOpener opens the item database described by cfg.
type DBOpener func(ctx context.Context, basePath string, cfg *config.Config) (ports.ItemDB, error)

// InitHandler handles database initialization.
type InitHandler struct {
	open DBOpener
}

// NewInitHandler creates a new init handler.
func NewInitHandler(open DBOpener) *InitHandler {
	return &InitHandler{
		open: open,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath  string
	Driver      string
	SeededTypes int
}

// Handle writes the default config, creates the schema and seeds the
// default catalog types.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("universe already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := h.open(ctx, basePath, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	seeded, err := services.NewTypeCatalogService(db, services.WithTypeCacheDisabled(true)).LoadDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("seeding default types: %w", err)
	}

	return &InitResult{
		ConfigPath:  config.ConfigFilePath(basePath),
		Driver:      cfg.Database.Driver,
		SeededTypes: seeded,
	}, nil
}
