// Package backend selects the storage.Store implementation named by the
// configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/fairshare/internal/config"
	"github.com/mmynk/fairshare/internal/storage"
	"github.com/mmynk/fairshare/internal/storage/memory"
	"github.com/mmynk/fairshare/internal/storage/postgres"
	"github.com/mmynk/fairshare/internal/storage/sqlite"
)

// Open returns the store for cfg.DataBackend.
func Open(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		slog.Info("Storage initialized", "backend", cfg.DataBackend)
		return memory.New(), nil

	case config.BackendSQLite:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite storage: %w", err)
		}
		slog.Info("Storage initialized", "backend", cfg.DataBackend, "database", cfg.DBPath)
		return store, nil

	case config.BackendPostgres:
		store, err := postgres.New(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL storage: %w", err)
		}
		slog.Info("Storage initialized", "backend", cfg.DataBackend, "max_conns", cfg.DBMaxConns)
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
