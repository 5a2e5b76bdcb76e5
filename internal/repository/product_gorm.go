package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tuanvumaihuynh/inventory-service/internal/model"
)

var _ ProductRepository = (*GormProductRepository)(nil)

// GormProductRepository stores products through gorm. It is used with the
// embedded SQLite store.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

type gormProduct struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Name          string          `gorm:"size:200;not null;index"`
	Description   *string         `gorm:"size:1000"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	StockQuantity int             `gorm:"not null"`
	Category      string          `gorm:"size:100;not null;index"`
	IsActive      bool            `gorm:"not null;default:true;index"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime:false"`
}

func (gormProduct) TableName() string {
	return "products"
}

// Migrate creates or updates the products table.
func (r *GormProductRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&gormProduct{}); err != nil {
		return fmt.Errorf("auto migrate products: %w", err)
	}
	return nil
}

func (r *GormProductRepository) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	row := newGormProduct(product)
	row.ID = 0

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}

	product.ID = row.ID
	return product, nil
}

func (r *GormProductRepository) GetActiveProduct(ctx context.Context, id int64) (model.Product, error) {
	return r.getActiveProduct(r.db.WithContext(ctx), id)
}

func (r *GormProductRepository) ListActiveProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	var rows []gormProduct
	if err := r.activeProducts(ctx, params.Filter).
		Order(clause.OrderByColumn{Column: clause.Column{Name: params.SortBy.column()}, Desc: params.Descending}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	return gormProductsToModel(rows), nil
}

func (r *GormProductRepository) CountActiveProducts(ctx context.Context, filter ProductFilter) (int, error) {
	var count int64
	if err := r.activeProducts(ctx, filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return int(count), nil
}

func (r *GormProductRepository) CountProducts(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&gormProduct{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count all products: %w", err)
	}

	return int(count), nil
}

func (r *GormProductRepository) ListLowStockProducts(ctx context.Context, threshold int) ([]model.Product, error) {
	var rows []gormProduct
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND stock_quantity < ?", true, threshold).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query low stock products: %w", err)
	}

	return gormProductsToModel(rows), nil
}

func (r *GormProductRepository) UpdateActiveProduct(
	ctx context.Context,
	id int64,
	updateFn func(*model.Product) error,
) (model.Product, error) {
	var updated model.Product

	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := r.getActiveProduct(tx, id)
		if err != nil {
			return err
		}

		createdAt := product.CreatedAt
		if err := updateFn(&product); err != nil {
			return err
		}
		product.ID = id
		product.CreatedAt = createdAt

		row := newGormProduct(product)
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("update product: %w", err)
		}

		updated = product
		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("transaction: %w", err)
	}

	return updated, nil
}

func (r *GormProductRepository) DeactivateProduct(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormProduct{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{"is_active": false, "updated_at": at})
	if res.Error != nil {
		return false, fmt.Errorf("deactivate product: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}

func (r *GormProductRepository) getActiveProduct(tx *gorm.DB, id int64) (model.Product, error) {
	var row gormProduct
	if err := tx.Where("id = ? AND is_active = ?", id, true).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}

	return row.toModel(), nil
}

func (r *GormProductRepository) activeProducts(ctx context.Context, filter ProductFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&gormProduct{}).Where("is_active = ?", true)

	if filter.Category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", filter.Category)
	}
	if pattern := likePattern(filter.Search); pattern != "" {
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	return q
}

func newGormProduct(product model.Product) gormProduct {
	return gormProduct{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		Category:      product.Category,
		IsActive:      product.IsActive,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

func (row gormProduct) toModel() model.Product {
	return model.Product{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		Price:         row.Price,
		StockQuantity: row.StockQuantity,
		Category:      row.Category,
		IsActive:      row.IsActive,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}

func gormProductsToModel(rows []gormProduct) []model.Product {
	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products
}
