package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/inventory-service/internal/apperr"
	"github.com/tuanvumaihuynh/inventory-service/internal/model"
	"github.com/tuanvumaihuynh/inventory-service/internal/repository"
	"github.com/tuanvumaihuynh/inventory-service/pkg/opt"
	"github.com/tuanvumaihuynh/inventory-service/pkg/validator"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

type ListProductsParams struct {
	Category string `json:"category"`
	Search   string `json:"search"`
	// SortBy is one of name, price, stock, category or created, in any case.
	// Anything else sorts by name.
	SortBy         string `json:"sortBy"`
	SortDescending bool   `json:"sortDescending"`
	Page           int    `json:"page" validate:"min=1"`
	PageSize       int    `json:"pageSize" validate:"min=1"`
}

type CreateProductParams struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=1000"`
	Price         *decimal.Decimal `json:"price" validate:"required,price"`
	StockQuantity *int             `json:"stockQuantity" validate:"required,gte=0"`
	Category      string           `json:"category" validate:"required,max=100"`
}

// UpdateProductParams holds the fields to change. Text fields are only applied
// when present and non-empty, so they cannot be cleared. Numeric fields are
// applied whenever present.
type UpdateProductParams struct {
	Name          opt.Field[string]          `json:"name" validate:"omitempty,max=200"`
	Description   opt.Field[string]          `json:"description" validate:"omitempty,max=1000"`
	Price         opt.Field[decimal.Decimal] `json:"price" validate:"omitempty,price"`
	StockQuantity opt.Field[int]             `json:"stockQuantity" validate:"omitempty,gte=0"`
	Category      opt.Field[string]          `json:"category" validate:"omitempty,max=100"`
}

type ProductService interface {
	ListProducts(ctx context.Context, params ListProductsParams) (model.Page[model.Product], error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	ListLowStockProducts(ctx context.Context) ([]model.Product, error)

	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id int64, params UpdateProductParams) (model.Product, error)
	// DeleteProduct deactivates the product. It reports false when there is no
	// active product with the id.
	DeleteProduct(ctx context.Context, id int64) (bool, error)

	SeedProducts(ctx context.Context) (int, error)
}

type Option func(*productService)

// WithClock overrides the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *productService) {
		s.now = now
	}
}

type productService struct {
	productRepo repository.ProductRepository
	validator   validator.Validator
	now         func() time.Time
}

func NewProductService(
	productRepo repository.ProductRepository,
	validator validator.Validator,
	opts ...Option,
) ProductService {
	s := &productService{
		productRepo: productRepo,
		validator:   validator,
		now:         time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *productService) ListProducts(ctx context.Context, params ListProductsParams) (model.Page[model.Product], error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Page[model.Product]{}, err
	}

	filter := repository.ProductFilter{
		Category: params.Category,
		Search:   params.Search,
	}

	totalCount, err := s.productRepo.CountActiveProducts(ctx, filter)
	if err != nil {
		return model.Page[model.Product]{}, fmt.Errorf("product repository count active products: %w", err)
	}

	products, err := s.productRepo.ListActiveProducts(ctx, repository.ListProductsParams{
		Filter:     filter,
		SortBy:     repository.ParseProductSortField(params.SortBy),
		Descending: params.SortDescending,
		Offset:     (params.Page - 1) * params.PageSize,
		Limit:      params.PageSize,
	})
	if err != nil {
		return model.Page[model.Product]{}, fmt.Errorf("product repository list active products: %w", err)
	}

	return model.Page[model.Product]{
		Items:      products,
		TotalCount: totalCount,
		Page:       params.Page,
		PageSize:   params.PageSize,
	}, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	product, err := s.productRepo.GetActiveProduct(ctx, id)
	if err != nil {
		return model.Product{}, productRepoError("get active product", err)
	}

	return product, nil
}

func (s *productService) ListLowStockProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListLowStockProducts(ctx, model.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("product repository list low stock products: %w", err)
	}

	return products, nil
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, err
	}

	now := s.now().UTC()
	product := model.Product{
		Name:          params.Name,
		Description:   params.Description,
		Price:         *params.Price,
		StockQuantity: *params.StockQuantity,
		Category:      params.Category,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	product, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository create product: %w", err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, params UpdateProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, err
	}

	product, err := s.productRepo.UpdateActiveProduct(ctx, id, func(p *model.Product) error {
		if v, ok := params.Name.Get(); ok && v != "" {
			p.Name = v
		}
		if v, ok := params.Description.Get(); ok && v != "" {
			p.Description = &v
		}
		if v, ok := params.Category.Get(); ok && v != "" {
			p.Category = v
		}
		if v, ok := params.Price.Get(); ok {
			p.Price = v
		}
		if v, ok := params.StockQuantity.Get(); ok {
			p.StockQuantity = v
		}
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return model.Product{}, productRepoError("update active product", err)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	ok, err := s.productRepo.DeactivateProduct(ctx, id, s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("product repository deactivate product: %w", err)
	}

	return ok, nil
}

func productRepoError(op string, err error) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return apperr.ProductNotFoundErr.WrapParent(err)
	}
	return fmt.Errorf("product repository %s: %w", op, err)
}
