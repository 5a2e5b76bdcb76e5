package repository_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/inventory-service/internal/model"
	"github.com/tuanvumaihuynh/inventory-service/internal/repository"
)

type countingRepository struct {
	repository.ProductRepository
	gets int
}

func (r *countingRepository) GetActiveProduct(ctx context.Context, id int64) (model.Product, error) {
	r.gets++
	return r.ProductRepository.GetActiveProduct(ctx, id)
}

// pausingRepository holds its first GetActiveProduct call after the product
// has been loaded until resume is closed.
type pausingRepository struct {
	repository.ProductRepository
	once   sync.Once
	loaded chan struct{}
	resume chan struct{}
}

func newPausingRepository() *pausingRepository {
	return &pausingRepository{
		ProductRepository: repository.NewMemoryProductRepository(),
		loaded:            make(chan struct{}),
		resume:            make(chan struct{}),
	}
}

func (r *pausingRepository) GetActiveProduct(ctx context.Context, id int64) (model.Product, error) {
	product, err := r.ProductRepository.GetActiveProduct(ctx, id)
	r.once.Do(func() {
		close(r.loaded)
		<-r.resume
	})
	return product, err
}

func newCache(t *testing.T, inner repository.ProductRepository) (*repository.CachedProductRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return repository.NewCachedProductRepository(inner, rdb, time.Minute, logger), mr
}

func newCachedRepository(t *testing.T) (*repository.CachedProductRepository, *countingRepository, *miniredis.Miniredis) {
	t.Helper()

	inner := &countingRepository{ProductRepository: repository.NewMemoryProductRepository()}
	repo, mr := newCache(t, inner)
	return repo, inner, mr
}

type getResult struct {
	product model.Product
	err     error
}

// startGet begins a lookup through repo and waits until inner has loaded the
// product but before the cache is filled.
func startGet(repo repository.ProductRepository, inner *pausingRepository, id int64) <-chan getResult {
	done := make(chan getResult, 1)
	go func() {
		product, err := repo.GetActiveProduct(context.Background(), id)
		done <- getResult{product: product, err: err}
	}()
	<-inner.loaded
	return done
}

func TestCachedProductRepository(t *testing.T) {
	testProductRepository(t, func(t *testing.T) repository.ProductRepository {
		repo, _, _ := newCachedRepository(t)
		return repo
	})

	ctx := context.Background()

	t.Run("Should serve repeated reads from cache", func(t *testing.T) {
		repo, inner, mr := newCachedRepository(t)
		created := seed(t, repo, newProduct("Mouse", "Electronics", "29.99", 50, nil))[0]

		first, err := repo.GetActiveProduct(ctx, created.ID)
		require.NoError(t, err)
		second, err := repo.GetActiveProduct(ctx, created.ID)
		require.NoError(t, err)

		assert.Equal(t, 1, inner.gets)
		assert.True(t, mr.Exists("product:1"))
		assert.Equal(t, first.Name, second.Name)
		assert.True(t, first.Price.Equal(second.Price))
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
		assert.Equal(t, time.Minute, mr.TTL("product:1"))
	})

	t.Run("Should cache updated product", func(t *testing.T) {
		repo, inner, _ := newCachedRepository(t)
		created := seed(t, repo, newProduct("Mouse", "Electronics", "29.99", 50, nil))[0]

		_, err := repo.GetActiveProduct(ctx, created.ID)
		require.NoError(t, err)

		_, err = repo.UpdateActiveProduct(ctx, created.ID, func(p *model.Product) error {
			p.Price = decimal.RequireFromString("19.99")
			return nil
		})
		require.NoError(t, err)

		got, err := repo.GetActiveProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, inner.gets)
		assert.True(t, decimal.RequireFromString("19.99").Equal(got.Price))
	})

	t.Run("Should remember deactivated product", func(t *testing.T) {
		repo, _, mr := newCachedRepository(t)
		created := seed(t, repo, newProduct("Mouse", "Electronics", "29.99", 50, nil))[0]

		_, err := repo.GetActiveProduct(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, mr.Exists("product:1"))

		ok, err := repo.DeactivateProduct(ctx, created.ID, baseTime.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, mr.Exists("product:1"))

		_, err = repo.GetActiveProduct(ctx, created.ID)
		assert.True(t, errors.Is(err, repository.ErrProductNotFound))
	})

	t.Run("Should not cache unknown ids", func(t *testing.T) {
		repo, _, mr := newCachedRepository(t)

		ok, err := repo.DeactivateProduct(ctx, 1, baseTime)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = repo.UpdateActiveProduct(ctx, 1, func(*model.Product) error { return nil })
		assert.True(t, errors.Is(err, repository.ErrProductNotFound))
		assert.False(t, mr.Exists("product:1"))

		created := seed(t, repo, newProduct("Mouse", "Electronics", "29.99", 50, nil))[0]
		_, err = repo.GetActiveProduct(ctx, created.ID)
		assert.NoError(t, err)
	})

	t.Run("Should not resurrect product deactivated during a read", func(t *testing.T) {
		inner := newPausingRepository()
		repo, _ := newCache(t, inner)
		created := seed(t, inner, newProduct("Mouse", "Electronics", "29.99", 50, nil))[0]

		read := startGet(repo, inner, created.ID)

		ok, err := repo.DeactivateProduct(ctx, created.ID, baseTime.Add(time.Minute))
		require.NoError(t, err)
		require.True(t, ok)

		close(inner.resume)
		require.NoError(t, (<-read).err)

		_, err = repo.GetActiveProduct(ctx, created.ID)
		assert.True(t, errors.Is(err, repository.ErrProductNotFound))
	})

	t.Run("Should not restore stale product updated during a read", func(t *testing.T) {
		inner := newPausingRepository()
		repo, _ := newCache(t, inner)
		created := seed(t, inner, newProduct("Mouse", "Electronics", "29.99", 50, nil))[0]

		read := startGet(repo, inner, created.ID)

		_, err := repo.UpdateActiveProduct(ctx, created.ID, func(p *model.Product) error {
			p.Price = decimal.RequireFromString("19.99")
			return nil
		})
		require.NoError(t, err)

		close(inner.resume)
		stale := <-read
		require.NoError(t, stale.err)
		assert.True(t, decimal.RequireFromString("29.99").Equal(stale.product.Price))

		got, err := repo.GetActiveProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("19.99").Equal(got.Price))
	})

	t.Run("Should fall back when redis is down", func(t *testing.T) {
		repo, inner, mr := newCachedRepository(t)
		created := seed(t, repo, newProduct("Mouse", "Electronics", "29.99", 50, nil))[0]
		mr.Close()

		got, err := repo.GetActiveProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mouse", got.Name)
		assert.Equal(t, 1, inner.gets)
	})
}
