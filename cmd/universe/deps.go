package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ersonp/universe-core/internal/application/handlers"
	"github.com/ersonp/universe-core/internal/domain/ports"
	"github.com/ersonp/universe-core/internal/domain/services"
	"github.com/ersonp/universe-core/internal/infrastructure/config"
	"github.com/ersonp/universe-core/internal/infrastructure/metrics"
	"github.com/ersonp/universe-core/internal/infrastructure/relationaldb/postgres"
	"github.com/ersonp/universe-core/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/universe-core/internal/infrastructure/tracing"
	"github.com/ersonp/universe-core/internal/log"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config        *config.Config
	Registry      *prometheus.Registry
	ItemHandler   *handlers.ItemHandler
	TypeHandler   *handlers.TypeHandler
	ImportHandler *handlers.ImportHandler
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	return withDepsAt(ctx, cwd, fn)
}

func withDepsAt(ctx context.Context, basePath string, fn func(*Deps) error) error {
	if !config.Exists(basePath) {
		return fmt.Errorf("no universe found in %s (run 'universe init')", basePath)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	closeLog, err := log.Init(cfg.LogPath(basePath), level)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closeLog()

	db, err := openDB(ctx, basePath, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("creating tracer provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	catalog := services.NewTypeCatalogService(db,
		services.WithTypeCacheTTL(cfg.Cache.TypeTTL, cfg.Cache.CleanupInterval),
		services.WithTypeCacheDisabled(cfg.Cache.Disabled),
		services.WithCatalogMetrics(m),
		services.WithCatalogLogger(log.Default()),
	)
	factory := services.NewItemFactory(catalog, db,
		services.WithLogger(log.Default()),
		services.WithMetrics(m),
		services.WithTracer(tp.Tracer()),
		services.WithLiveRegistry(cfg.Factory.ShareLive),
		services.WithMaxDepth(cfg.Factory.MaxDepth),
	)
	importService := services.NewImportService(db, catalog, m)

	return fn(&Deps{
		Config:        cfg,
		Registry:      registry,
		ItemHandler:   handlers.NewItemHandler(factory),
		TypeHandler:   handlers.NewTypeHandler(catalog),
		ImportHandler: handlers.NewImportHandler(importService),
	})
}

// openDB opens the item database selected by cfg.Database.Driver.
func openDB(ctx context.Context, basePath string, cfg *config.Config) (ports.ItemDB, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		repo, err := postgres.NewRepository(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("creating postgres repository: %w", err)
		}
		return repo, nil
	default:
		sqliteCfg := cfg.SQLite
		sqliteCfg.Path = cfg.SQLitePath(basePath)
		repo, err := sqlite.NewRepository(sqliteCfg)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite repository: %w", err)
		}
		return repo, nil
	}
}
