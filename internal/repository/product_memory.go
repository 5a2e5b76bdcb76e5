package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/inventory-service/internal/model"
	"github.com/tuanvumaihuynh/inventory-service/pkg/ptr"
)

var _ ProductRepository = (*MemoryProductRepository)(nil)

// MemoryProductRepository keeps products in process memory. Every operation is
// serialized by a single lock.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[int64]model.Product
	nextID   int64
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[int64]model.Product),
		nextID:   1,
	}
}

func (r *MemoryProductRepository) CreateProduct(_ context.Context, product model.Product) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = cloneProduct(product)

	return cloneProduct(product), nil
}

func (r *MemoryProductRepository) GetActiveProduct(_ context.Context, id int64) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok || !product.IsActive {
		return model.Product{}, ErrProductNotFound
	}

	return cloneProduct(product), nil
}

func (r *MemoryProductRepository) CountProducts(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.products), nil
}

func (r *MemoryProductRepository) ListActiveProducts(_ context.Context, params ListProductsParams) ([]model.Product, error) {
	r.mu.RLock()
	products := r.filter(params.Filter)
	r.mu.RUnlock()

	slices.SortFunc(products, func(a, b model.Product) int {
		c := params.SortBy.compare(a, b)
		if params.Descending {
			c = -c
		}
		if c == 0 {
			c = compareID(a, b)
		}
		return c
	})

	start := min(max(params.Offset, 0), len(products))
	end := min(start+max(params.Limit, 0), len(products))

	return products[start:end], nil
}

func (r *MemoryProductRepository) CountActiveProducts(_ context.Context, filter ProductFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.filter(filter)), nil
}

func (r *MemoryProductRepository) ListLowStockProducts(_ context.Context, threshold int) ([]model.Product, error) {
	r.mu.RLock()
	products := make([]model.Product, 0)
	for _, p := range r.products {
		if p.IsActive && p.StockQuantity < threshold {
			products = append(products, cloneProduct(p))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(products, compareID)
	return products, nil
}

func (r *MemoryProductRepository) UpdateActiveProduct(
	_ context.Context,
	id int64,
	updateFn func(*model.Product) error,
) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[id]
	if !ok || !stored.IsActive {
		return model.Product{}, ErrProductNotFound
	}

	product := cloneProduct(stored)
	if err := updateFn(&product); err != nil {
		return model.Product{}, err
	}
	product.ID = id
	product.IsActive = true
	product.CreatedAt = stored.CreatedAt

	r.products[id] = cloneProduct(product)
	return product, nil
}

func (r *MemoryProductRepository) DeactivateProduct(_ context.Context, id int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || !product.IsActive {
		return false, nil
	}

	product.IsActive = false
	product.UpdatedAt = at
	r.products[id] = product

	return true, nil
}

// filter must be called with the lock held.
func (r *MemoryProductRepository) filter(filter ProductFilter) []model.Product {
	search := strings.ToLower(filter.Search)

	products := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if !p.IsActive {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(ptr.Deref(p.Description)), search) {
			continue
		}
		products = append(products, cloneProduct(p))
	}

	return products
}

func compareID(a, b model.Product) int {
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}

func cloneProduct(p model.Product) model.Product {
	p.Description = ptr.Clone(p.Description)
	return p
}

// IsHealthy always reports true; there is no backing store to reach.
func (r *MemoryProductRepository) IsHealthy(context.Context) (bool, error) {
	return true, nil
}
