package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/inventory-service/pkg/ptr"
)

// DemoProducts is the starter catalogue written by SeedProducts.
var DemoProducts = []CreateProductParams{
	{
		Name:          "Laptop",
		Description:   ptr.New("High-performance laptop"),
		Price:         ptr.New(decimal.RequireFromString("999.99")),
		StockQuantity: ptr.New(15),
		Category:      "Electronics",
	},
	{
		Name:          "Mouse",
		Description:   ptr.New("Wireless mouse"),
		Price:         ptr.New(decimal.RequireFromString("29.99")),
		StockQuantity: ptr.New(3),
		Category:      "Electronics",
	},
	{
		Name:          "Desk Chair",
		Description:   ptr.New("Ergonomic office chair"),
		Price:         ptr.New(decimal.RequireFromString("199.99")),
		StockQuantity: ptr.New(8),
		Category:      "Furniture",
	},
}

// SeedProducts creates DemoProducts in a store that has never held a product.
// Deactivated products count as held, so a deleted catalogue stays empty. It
// returns the number of products created.
func (s *productService) SeedProducts(ctx context.Context) (int, error) {
	total, err := s.productRepo.CountProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("product repository count products: %w", err)
	}
	if total > 0 {
		return 0, nil
	}

	for i, params := range DemoProducts {
		if _, err := s.CreateProduct(ctx, params); err != nil {
			return i, fmt.Errorf("create product %q: %w", params.Name, err)
		}
	}

	return len(DemoProducts), nil
}
