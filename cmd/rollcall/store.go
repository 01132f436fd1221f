package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openfloor/rollcall/internal/config"
	"github.com/openfloor/rollcall/internal/db"
	"github.com/openfloor/rollcall/internal/matrix"
	"github.com/openfloor/rollcall/internal/storage"
)

// openStore picks the backend from configuration: Postgres when
// DATABASE_URL is set (with migrations applied), otherwise the local
// SQLite file. The returned healthChecker is nil for SQLite.
func openStore(ctx context.Context, cfg *config.Config) (store matrix.Store, healthChecker interface{ Health(context.Context) error }, cleanup func(), err error) {
	if cfg.DatabaseURL != "" {
		database, err := db.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.RunMigrations(ctx, database.Pool()); err != nil {
			database.Close()
			return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return storage.NewPostgres(database.Pool()), database, database.Close, nil
	}

	sqlite, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open %s: %w", cfg.DatabasePath, err)
	}
	slog.Info("Using SQLite database", "path", cfg.DatabasePath)
	cleanup = func() {
		if err := sqlite.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}
	return sqlite, nil, cleanup, nil
}
