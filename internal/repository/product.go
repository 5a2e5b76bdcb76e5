package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/inventory-service/internal/model"
	"github.com/tuanvumaihuynh/inventory-service/internal/storage/db"
)

const productColumns = `id, name, description, price, stock_quantity, category, is_active, created_at, updated_at`

const activeProductFilter = `is_active
	AND (@category::text = '' OR LOWER(category) = LOWER(@category::text))
	AND (@pattern::text = '' OR LOWER(name) LIKE @pattern::text ESCAPE '\' OR LOWER(description) LIKE @pattern::text ESCAPE '\')`

var _ ProductRepository = (*productRepository)(nil)

type productRepository struct {
	db db.DB
}

// NewProductRepository creates a Postgres backed product repository.
func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

type productRow struct {
	ID            int64          `db:"id"`
	Name          string         `db:"name"`
	Description   *string        `db:"description"`
	Price         pgtype.Numeric `db:"price"`
	StockQuantity int            `db:"stock_quantity"`
	Category      string         `db:"category"`
	IsActive      bool           `db:"is_active"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	args := productArgs(product)
	args["is_active"] = product.IsActive
	args["created_at"] = product.CreatedAt

	if err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, price, stock_quantity, category, is_active, created_at, updated_at)
		VALUES (@name, @description, @price, @stock_quantity, @category, @is_active, @created_at, @updated_at)
		RETURNING id`, args).Scan(&product.ID); err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return product, nil
}

func (r productRepository) GetActiveProduct(ctx context.Context, id int64) (model.Product, error) {
	return getActiveProduct(ctx, r.db, id, "")
}

func (r productRepository) ListActiveProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	direction := "ASC"
	if params.Descending {
		direction = "DESC"
	}

	args := filterArgs(params.Filter)
	args["offset"] = params.Offset
	args["limit"] = params.Limit

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s %s, id ASC OFFSET @offset LIMIT @limit`,
		productColumns, activeProductFilter, params.SortBy.orderBy(), direction)

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	return collectProducts(rows)
}

func (r productRepository) CountActiveProducts(ctx context.Context, filter ProductFilter) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+activeProductFilter, filterArgs(filter)).
		Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return count, nil
}

func (r productRepository) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count all products: %w", err)
	}

	return count, nil
}

func (r productRepository) ListLowStockProducts(ctx context.Context, threshold int) ([]model.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_active AND stock_quantity < @threshold ORDER BY id ASC`,
		pgx.NamedArgs{"threshold": threshold})
	if err != nil {
		return nil, fmt.Errorf("query low stock products: %w", err)
	}

	return collectProducts(rows)
}

func (r productRepository) UpdateActiveProduct(
	ctx context.Context,
	id int64,
	updateFn func(*model.Product) error,
) (model.Product, error) {
	var updated model.Product

	if err := r.db.WithTx(ctx, func(tx db.DB) error {
		product, err := getActiveProduct(ctx, tx, id, "FOR UPDATE")
		if err != nil {
			return err
		}

		createdAt := product.CreatedAt
		if err := updateFn(&product); err != nil {
			return err
		}
		product.ID = id
		product.CreatedAt = createdAt

		args := productArgs(product)
		args["id"] = id
		if _, err := tx.Exec(ctx, `
			UPDATE products
			SET name = @name, description = @description, price = @price,
				stock_quantity = @stock_quantity, category = @category, updated_at = @updated_at
			WHERE id = @id`, args); err != nil {
			return fmt.Errorf("update product: %w", err)
		}

		updated = product
		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return updated, nil
}

func (r productRepository) DeactivateProduct(ctx context.Context, id int64, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = @updated_at WHERE id = @id AND is_active`,
		pgx.NamedArgs{"id": id, "updated_at": at})
	if err != nil {
		return false, fmt.Errorf("deactivate product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func getActiveProduct(ctx context.Context, q db.DB, id int64, lock string) (model.Product, error) {
	rows, err := q.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = @id AND is_active `+lock,
		pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return row.toModel()
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	products := make([]model.Product, 0, len(productRows))
	for _, row := range productRows {
		product, err := row.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}

func productArgs(product model.Product) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":           product.Name,
		"description":    product.Description,
		"price":          decimalToNumeric(product.Price),
		"stock_quantity": product.StockQuantity,
		"category":       product.Category,
		"updated_at":     product.UpdatedAt,
	}
}

func filterArgs(filter ProductFilter) pgx.NamedArgs {
	return pgx.NamedArgs{
		"category": filter.Category,
		"pattern":  likePattern(filter.Search),
	}
}

func (row productRow) toModel() (model.Product, error) {
	price, err := numericToDecimal(row.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price of product %d: %w", row.ID, err)
	}

	return model.Product{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		Price:         price,
		StockQuantity: row.StockQuantity,
		Category:      row.Category,
		IsActive:      row.IsActive,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}, nil
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, errors.New("price is not a finite number")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}
