package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tuanvumaihuynh/inventory-service/internal/config"
)

// NewRedisClient creates a redis client and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	cl := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := cl.Ping(pingCtx).Err(); err != nil {
		_ = cl.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return cl, nil
}
