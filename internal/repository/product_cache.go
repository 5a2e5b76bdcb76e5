package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tuanvumaihuynh/inventory-service/internal/model"
)

var _ ProductRepository = (*CachedProductRepository)(nil)

// CachedProductRepository serves single product lookups from redis and falls
// back to the wrapped repository on a miss. A miss only fills an empty key, so
// it never overwrites what a concurrent write stored: updates store the new
// product and deactivations store a tombstone. Redis failures are logged and
// never fail the call.
type CachedProductRepository struct {
	next   ProductRepository
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedProductRepository(
	next ProductRepository,
	rdb redis.Cmdable,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedProductRepository {
	return &CachedProductRepository{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "product_cache")),
	}
}

// deletedMarker is cached for deactivated products. Products are never
// reactivated, so it stays valid until it expires.
const deletedMarker = "deleted"

func productCacheKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func (r *CachedProductRepository) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	return r.next.CreateProduct(ctx, product)
}

func (r *CachedProductRepository) GetActiveProduct(ctx context.Context, id int64) (model.Product, error) {
	key := productCacheKey(id)

	data, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && string(data) == deletedMarker:
		return model.Product{}, ErrProductNotFound
	case err == nil:
		var product model.Product
		if err := json.Unmarshal(data, &product); err == nil {
			return product, nil
		}
		r.logger.WarnContext(ctx, "discarding malformed cache entry", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.logger.WarnContext(ctx, "error reading product cache", slog.Any("error", err))
	}

	product, err := r.next.GetActiveProduct(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	r.fill(ctx, product)
	return product, nil
}

func (r *CachedProductRepository) ListActiveProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	return r.next.ListActiveProducts(ctx, params)
}

func (r *CachedProductRepository) CountActiveProducts(ctx context.Context, filter ProductFilter) (int, error) {
	return r.next.CountActiveProducts(ctx, filter)
}

func (r *CachedProductRepository) CountProducts(ctx context.Context) (int, error) {
	return r.next.CountProducts(ctx)
}

func (r *CachedProductRepository) ListLowStockProducts(ctx context.Context, threshold int) ([]model.Product, error) {
	return r.next.ListLowStockProducts(ctx, threshold)
}

func (r *CachedProductRepository) UpdateActiveProduct(
	ctx context.Context,
	id int64,
	updateFn func(*model.Product) error,
) (model.Product, error) {
	product, err := r.next.UpdateActiveProduct(ctx, id, updateFn)
	switch {
	case errors.Is(err, ErrProductNotFound):
		return model.Product{}, err
	case err != nil:
		// The write may have committed.
		r.evict(ctx, id)
		return model.Product{}, err
	}

	r.store(ctx, product)
	return product, nil
}

func (r *CachedProductRepository) DeactivateProduct(ctx context.Context, id int64, at time.Time) (bool, error) {
	ok, err := r.next.DeactivateProduct(ctx, id, at)
	if err != nil {
		r.evict(ctx, id)
		return false, err
	}

	if ok {
		r.markDeleted(ctx, id)
	}
	return ok, nil
}

// fill caches a product read from the wrapped repository unless the key is
// already set.
func (r *CachedProductRepository) fill(ctx context.Context, product model.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		r.logger.WarnContext(ctx, "error encoding product for cache", slog.Any("error", err))
		return
	}

	if err := r.rdb.SetNX(ctx, productCacheKey(product.ID), data, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "error writing product cache", slog.Any("error", err))
	}
}

func (r *CachedProductRepository) store(ctx context.Context, product model.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		r.logger.WarnContext(ctx, "error encoding product for cache", slog.Any("error", err))
		r.evict(ctx, product.ID)
		return
	}

	if err := r.rdb.Set(ctx, productCacheKey(product.ID), data, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "error writing product cache", slog.Any("error", err))
		r.evict(ctx, product.ID)
	}
}

func (r *CachedProductRepository) markDeleted(ctx context.Context, id int64) {
	if err := r.rdb.Set(ctx, productCacheKey(id), deletedMarker, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "error marking product deleted in cache",
			slog.Int64("product_id", id), slog.Any("error", err))
		r.evict(ctx, id)
	}
}

func (r *CachedProductRepository) evict(ctx context.Context, id int64) {
	if err := r.rdb.Del(ctx, productCacheKey(id)).Err(); err != nil {
		r.logger.WarnContext(ctx, "error evicting product cache",
			slog.Int64("product_id", id), slog.Any("error", err))
	}
}
