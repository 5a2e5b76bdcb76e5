package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/inventory-service/internal/config"
	"github.com/tuanvumaihuynh/inventory-service/internal/http"
	"github.com/tuanvumaihuynh/inventory-service/internal/log"
	"github.com/tuanvumaihuynh/inventory-service/internal/repository"
	"github.com/tuanvumaihuynh/inventory-service/internal/service"
	"github.com/tuanvumaihuynh/inventory-service/internal/storage/cache"
	"github.com/tuanvumaihuynh/inventory-service/internal/telemetry"
	"github.com/tuanvumaihuynh/inventory-service/pkg/cmdutil"
	"github.com/tuanvumaihuynh/inventory-service/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running inventory api: %v\n", err)
		os.Exit(1)
	}
}

type Config struct {
	Log      config.Log
	HTTP     config.HTTP
	Storage  config.Storage
	Postgres config.Postgres
	Redis    config.Redis
	Otel     config.Otel
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error opening storage: %w", err)
	}
	defer store.close()
	logger.InfoContext(ctx, "storage opened", slog.String("driver", cfg.Storage.Driver.String()))

	productRepository := store.repo
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("error creating redis client: %w", err)
		}
		defer rdb.Close()

		productRepository = repository.NewCachedProductRepository(productRepository, rdb, cfg.Redis.TTL, logger)
		logger.InfoContext(ctx, "product cache enabled", slog.Duration("ttl", cfg.Redis.TTL))
	}

	productService := service.NewProductService(productRepository, validator.NewDefaultValidator())

	if cfg.Storage.Seed {
		n, err := productService.SeedProducts(ctx)
		if err != nil {
			return fmt.Errorf("error seeding products: %w", err)
		}
		logger.InfoContext(ctx, "products seeded", slog.Int("count", n))
	}

	interruptChan := cmdutil.InterruptChan()

	svc := http.New(cfg.HTTP, logger, productService, store.health)
	cleanup, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running http service: %w", err)
	}

	logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

	<-interruptChan

	logger.InfoContext(ctx, "http service is shutting down")
	if err := cleanup(ctx); err != nil {
		logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
	}

	logger.InfoContext(ctx, "http service is stopped")

	return nil
}
