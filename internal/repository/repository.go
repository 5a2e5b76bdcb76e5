package repository

import (
	"cmp"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tuanvumaihuynh/inventory-service/internal/model"
)

// ErrProductNotFound is returned when no active product matches the id.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository stores products. Read operations only ever see active
// products.
type ProductRepository interface {
	// CreateProduct stores a new product and returns it with its assigned id.
	CreateProduct(ctx context.Context, product model.Product) (model.Product, error)
	GetActiveProduct(ctx context.Context, id int64) (model.Product, error)
	ListActiveProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	CountActiveProducts(ctx context.Context, filter ProductFilter) (int, error)
	// CountProducts counts every stored product, deactivated ones included.
	CountProducts(ctx context.Context) (int, error)
	// ListLowStockProducts returns active products with a stock quantity below
	// threshold, ordered by id.
	ListLowStockProducts(ctx context.Context, threshold int) ([]model.Product, error)
	// UpdateActiveProduct loads the active product, applies updateFn to it and
	// persists the result atomically. The id and timestamps of creation cannot be
	// changed by updateFn.
	UpdateActiveProduct(ctx context.Context, id int64, updateFn func(*model.Product) error) (model.Product, error)
	// DeactivateProduct marks an active product inactive. It reports false when
	// no active product has the id.
	DeactivateProduct(ctx context.Context, id int64, at time.Time) (bool, error)
}

// ProductFilter narrows the active product set. Empty fields match everything.
type ProductFilter struct {
	// Category is matched exactly, ignoring case.
	Category string
	// Search is matched as a substring of the name or description, ignoring case.
	Search string
}

type ListProductsParams struct {
	Filter     ProductFilter
	SortBy     ProductSortField
	Descending bool
	Offset     int
	Limit      int
}

type ProductSortField string

const (
	ProductSortByName      ProductSortField = "name"
	ProductSortByPrice     ProductSortField = "price"
	ProductSortByStock     ProductSortField = "stock"
	ProductSortByCategory  ProductSortField = "category"
	ProductSortByCreatedAt ProductSortField = "created"
)

// ParseProductSortField resolves s case-insensitively. Unknown values fall back
// to ProductSortByName.
func ParseProductSortField(s string) ProductSortField {
	switch f := ProductSortField(strings.ToLower(s)); f {
	case ProductSortByPrice, ProductSortByStock, ProductSortByCategory, ProductSortByCreatedAt:
		return f
	default:
		return ProductSortByName
	}
}

func (f ProductSortField) column() string {
	switch f {
	case ProductSortByPrice:
		return "price"
	case ProductSortByStock:
		return "stock_quantity"
	case ProductSortByCategory:
		return "category"
	case ProductSortByCreatedAt:
		return "created_at"
	default:
		return "name"
	}
}

// orderBy is the ORDER BY expression for f. Text columns compare bytes, the
// same as strings.Compare and the default SQLite collation, so every store
// returns the same order.
func (f ProductSortField) orderBy() string {
	switch f {
	case ProductSortByPrice, ProductSortByStock, ProductSortByCreatedAt:
		return f.column()
	default:
		return f.column() + ` COLLATE "C"`
	}
}

func (f ProductSortField) compare(a, b model.Product) int {
	switch f {
	case ProductSortByPrice:
		return a.Price.Cmp(b.Price)
	case ProductSortByStock:
		return cmp.Compare(a.StockQuantity, b.StockQuantity)
	case ProductSortByCategory:
		return strings.Compare(a.Category, b.Category)
	case ProductSortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a lower-cased LIKE pattern matching search as a literal
// substring. The escape character is a backslash.
func likePattern(search string) string {
	if search == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}
