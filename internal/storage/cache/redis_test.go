package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/inventory-service/internal/config"
	"github.com/tuanvumaihuynh/inventory-service/internal/storage/cache"
)

func TestNewRedisClient(t *testing.T) {
	t.Run("Should connect", func(t *testing.T) {
		mr := miniredis.RunT(t)

		cl, err := cache.NewRedisClient(context.Background(), config.Redis{Addr: mr.Addr()})
		require.NoError(t, err)
		t.Cleanup(func() { _ = cl.Close() })

		assert.NoError(t, cl.Set(context.Background(), "k", "v", 0).Err())
		got, _ := mr.Get("k")
		assert.Equal(t, "v", got)
	})

	t.Run("Should fail when server is unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := cache.NewRedisClient(context.Background(), config.Redis{Addr: addr})
		assert.Error(t, err)
	})
}
