package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/inventory-service/internal/model"
)

func TestProductIsLowStock(t *testing.T) {
	assert.True(t, model.Product{StockQuantity: 0}.IsLowStock())
	assert.True(t, model.Product{StockQuantity: 4}.IsLowStock())
	assert.False(t, model.Product{StockQuantity: 5}.IsLowStock())
	assert.False(t, model.Product{StockQuantity: 100}.IsLowStock())
}

func TestPage(t *testing.T) {
	tests := []struct {
		name       string
		page       model.Page[int]
		totalPages int
		hasPrev    bool
		hasNext    bool
	}{
		{"empty listing", model.Page[int]{TotalCount: 0, Page: 1, PageSize: 10}, 0, false, false},
		{"single partial page", model.Page[int]{TotalCount: 3, Page: 1, PageSize: 10}, 1, false, false},
		{"first of two", model.Page[int]{TotalCount: 3, Page: 1, PageSize: 2}, 2, false, true},
		{"last of two", model.Page[int]{TotalCount: 3, Page: 2, PageSize: 2}, 2, true, false},
		{"exact multiple", model.Page[int]{TotalCount: 4, Page: 2, PageSize: 2}, 2, true, false},
		{"beyond last page", model.Page[int]{TotalCount: 3, Page: 7, PageSize: 2}, 2, true, false},
		{"beyond on empty listing", model.Page[int]{TotalCount: 0, Page: 3, PageSize: 2}, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.totalPages, tt.page.TotalPages())
			assert.Equal(t, tt.hasPrev, tt.page.HasPreviousPage())
			assert.Equal(t, tt.hasNext, tt.page.HasNextPage())
		})
	}
}
