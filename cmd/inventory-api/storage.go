package main

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/inventory-service/internal/config"
	"github.com/tuanvumaihuynh/inventory-service/internal/repository"
	"github.com/tuanvumaihuynh/inventory-service/internal/storage/db"
	"github.com/tuanvumaihuynh/inventory-service/internal/storage/sqlite"
)

type storage struct {
	repo   repository.ProductRepository
	health db.HealthChecker
	close  func()
}

// openStorage opens the product store selected by STORAGE_DRIVER. The
// Postgres schema is managed by inventory-migrate; SQLite is migrated here.
func openStorage(ctx context.Context, cfg Config) (storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
		if err != nil {
			return storage{}, fmt.Errorf("create pgx pool: %w", err)
		}

		dbClient := db.NewClient(pgxPool)
		return storage{
			repo:   repository.NewProductRepository(dbClient),
			health: dbClient,
			close:  pgxPool.Close,
		}, nil

	case config.StorageDriverSQLite:
		client, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return storage{}, fmt.Errorf("open sqlite: %w", err)
		}

		repo := repository.NewGormProductRepository(client.DB)
		if err := repo.Migrate(ctx); err != nil {
			_ = client.Close()
			return storage{}, fmt.Errorf("migrate sqlite: %w", err)
		}

		return storage{
			repo:   repo,
			health: client,
			close:  func() { _ = client.Close() },
		}, nil

	case config.StorageDriverMemory:
		repo := repository.NewMemoryProductRepository()
		return storage{
			repo:   repo,
			health: repo,
			close:  func() {},
		}, nil

	default:
		return storage{}, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}
