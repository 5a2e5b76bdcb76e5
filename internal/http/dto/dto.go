// Package dto holds the JSON bodies exchanged over the HTTP API.
package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/inventory-service/internal/model"
	"github.com/tuanvumaihuynh/inventory-service/pkg/opt"
)

type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details *[]FieldError `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ProductResponse struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Description   *string     `json:"description"`
	Price         json.Number `json:"price"`
	StockQuantity int         `json:"stockQuantity"`
	Category      string      `json:"category"`
	IsActive      bool        `json:"isActive"`
	IsLowStock    bool        `json:"isLowStock"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type PagedResult[T any] struct {
	Items           []T  `json:"items"`
	TotalCount      int  `json:"totalCount"`
	Page            int  `json:"page"`
	PageSize        int  `json:"pageSize"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// CreateProductRequest accepts price as a JSON number or a numeric string.
type CreateProductRequest struct {
	Name          string           `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stockQuantity"`
	Category      string           `json:"category"`
}

// UpdateProductRequest fields that are missing or null are left unchanged.
type UpdateProductRequest struct {
	Name          opt.Field[string]          `json:"name"`
	Description   opt.Field[string]          `json:"description"`
	Price         opt.Field[decimal.Decimal] `json:"price"`
	StockQuantity opt.Field[int]             `json:"stockQuantity"`
	Category      opt.Field[string]          `json:"category"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func NewProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         json.Number(p.Price.StringFixed(2)),
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		IsActive:      p.IsActive,
		IsLowStock:    p.IsLowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func NewProductResponses(products []model.Product) []ProductResponse {
	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, NewProductResponse(p))
	}
	return items
}

func NewPagedResult(page model.Page[model.Product]) PagedResult[ProductResponse] {
	return PagedResult[ProductResponse]{
		Items:           NewProductResponses(page.Items),
		TotalCount:      page.TotalCount,
		Page:            page.Page,
		PageSize:        page.PageSize,
		TotalPages:      page.TotalPages(),
		HasPreviousPage: page.HasPreviousPage(),
		HasNextPage:     page.HasNextPage(),
	}
}
