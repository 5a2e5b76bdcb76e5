package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock quantity below which a product is low on stock.
const LowStockThreshold = 5

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Category      string          `json:"category"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsLowStock reports whether the stock quantity is below LowStockThreshold.
func (p Product) IsLowStock() bool {
	return p.StockQuantity < LowStockThreshold
}
