package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/inventory-service/internal/model"
	"github.com/tuanvumaihuynh/inventory-service/internal/repository"
	"github.com/tuanvumaihuynh/inventory-service/pkg/ptr"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newProduct(name, category, price string, stock int, description *string) model.Product {
	return model.Product{
		Name:          name,
		Description:   description,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Category:      category,
		IsActive:      true,
		CreatedAt:     baseTime,
		UpdatedAt:     baseTime,
	}
}

func seed(t *testing.T, repo repository.ProductRepository, products ...model.Product) []model.Product {
	t.Helper()

	created := make([]model.Product, 0, len(products))
	for _, p := range products {
		c, err := repo.CreateProduct(context.Background(), p)
		require.NoError(t, err)
		created = append(created, c)
	}
	return created
}

func names(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func ids(products []model.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

// testProductRepository runs the behaviour every ProductRepository shares.
func testProductRepository(t *testing.T, newRepo func(t *testing.T) repository.ProductRepository) {
	ctx := context.Background()

	t.Run("Should create and get product", func(t *testing.T) {
		repo := newRepo(t)

		created := seed(t, repo,
			newProduct("Laptop", "Electronics", "1299.99", 15, ptr.New("High-performance laptop")),
			newProduct("Mouse", "Electronics", "29.99", 3, nil),
		)
		assert.NotZero(t, created[0].ID)
		assert.NotEqual(t, created[0].ID, created[1].ID)

		got, err := repo.GetActiveProduct(ctx, created[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "Laptop", got.Name)
		require.NotNil(t, got.Description)
		assert.Equal(t, "High-performance laptop", *got.Description)
		assert.True(t, decimal.RequireFromString("1299.99").Equal(got.Price))
		assert.Equal(t, 15, got.StockQuantity)
		assert.Equal(t, "Electronics", got.Category)
		assert.True(t, got.IsActive)
		assert.True(t, baseTime.Equal(got.CreatedAt))
		assert.True(t, baseTime.Equal(got.UpdatedAt))

		got, err = repo.GetActiveProduct(ctx, created[1].ID)
		require.NoError(t, err)
		assert.Nil(t, got.Description)
	})

	t.Run("Should return not found for absent product", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetActiveProduct(ctx, 9999)
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
	})

	t.Run("Should filter by category ignoring case", func(t *testing.T) {
		repo := newRepo(t)
		seed(t, repo,
			newProduct("Laptop", "Electronics", "1299.99", 15, nil),
			newProduct("Desk Chair", "Furniture", "249.99", 8, nil),
			newProduct("Mouse", "electronics", "29.99", 50, nil),
		)

		filter := repository.ProductFilter{Category: "ELECTRONICS"}
		products, err := repo.ListActiveProducts(ctx, repository.ListProductsParams{
			Filter: filter, SortBy: repository.ProductSortByName, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Laptop", "Mouse"}, names(products))

		count, err := repo.CountActiveProducts(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("Should search name and description", func(t *testing.T) {
		repo := newRepo(t)
		seed(t, repo,
			newProduct("Laptop", "Electronics", "1299.99", 15, ptr.New("Portable computer")),
			newProduct("Mouse", "Electronics", "29.99", 50, ptr.New("Wireless MOUSE for laptops")),
			newProduct("Desk Chair", "Furniture", "249.99", 8, nil),
		)

		products, err := repo.ListActiveProducts(ctx, repository.ListProductsParams{
			Filter: repository.ProductFilter{Search: "lApToP"}, SortBy: repository.ProductSortByName, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Laptop", "Mouse"}, names(products))

		products, err = repo.ListActiveProducts(ctx, repository.ListProductsParams{
			Filter: repository.ProductFilter{Search: "chair", Category: "electronics"}, Limit: 10,
		})
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("Should match wildcard characters literally", func(t *testing.T) {
		repo := newRepo(t)
		seed(t, repo,
			newProduct("100% Cotton Shirt", "Clothing", "19.99", 10, nil),
			newProduct("1000 Thread Sheets", "Home", "59.99", 10, nil),
			newProduct("snake_case mug", "Home", "9.99", 10, nil),
			newProduct("snakecase poster", "Home", "4.99", 10, nil),
		)

		products, err := repo.ListActiveProducts(ctx, repository.ListProductsParams{
			Filter: repository.ProductFilter{Search: "100%"}, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"100% Cotton Shirt"}, names(products))

		products, err = repo.ListActiveProducts(ctx, repository.ListProductsParams{
			Filter: repository.ProductFilter{Search: "e_c"}, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"snake_case mug"}, names(products))
	})

	t.Run("Should sort text by byte order", func(t *testing.T) {
		repo := newRepo(t)
		seed(t, repo,
			newProduct("apple corer", "kitchen", "5.00", 10, nil),
			newProduct("Banana stand", "Kitchen", "15.00", 10, nil),
			newProduct("cherry pitter", "Garden", "8.00", 10, nil),
		)

		products, err := repo.ListActiveProducts(ctx, repository.ListProductsParams{
			SortBy: repository.ProductSortByName, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Banana stand", "apple corer", "cherry pitter"}, names(products))

		products, err = repo.ListActiveProducts(ctx, repository.ListProductsParams{
			SortBy: repository.ProductSortByCategory, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"cherry pitter", "Banana stand", "apple corer"}, names(products))
	})

	t.Run("Should sort with id tie-break", func(t *testing.T) {
		repo := newRepo(t)
		created := seed(t, repo,
			newProduct("B", "Cat", "10.00", 5, nil),
			newProduct("A", "Cat", "20.00", 5, nil),
			newProduct("C", "Cat", "10.00", 1, nil),
		)

		products, err := repo.ListActiveProducts(ctx, repository.ListProductsParams{
			SortBy: repository.ProductSortByPrice, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{created[0].ID, created[2].ID, created[1].ID}, ids(products))

		products, err = repo.ListActiveProducts(ctx, repository.ListProductsParams{
			SortBy: repository.ProductSortByPrice, Descending: true, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{created[1].ID, created[0].ID, created[2].ID}, ids(products))

		products, err = repo.ListActiveProducts(ctx, repository.ListProductsParams{
			SortBy: repository.ProductSortByStock, Descending: true, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{created[0].ID, created[1].ID, created[2].ID}, ids(products))

		products, err = repo.ListActiveProducts(ctx, repository.ListProductsParams{
			SortBy: repository.ProductSortByName, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C"}, names(products))
	})

	t.Run("Should page results", func(t *testing.T) {
		repo := newRepo(t)
		seed(t, repo,
			newProduct("A", "Cat", "1.00", 5, nil),
			newProduct("B", "Cat", "1.00", 5, nil),
			newProduct("C", "Cat", "1.00", 5, nil),
			newProduct("D", "Cat", "1.00", 5, nil),
			newProduct("E", "Cat", "1.00", 5, nil),
		)

		products, err := repo.ListActiveProducts(ctx, repository.ListProductsParams{
			SortBy: repository.ProductSortByName, Offset: 2, Limit: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"C", "D"}, names(products))

		products, err = repo.ListActiveProducts(ctx, repository.ListProductsParams{
			SortBy: repository.ProductSortByName, Offset: 10, Limit: 2,
		})
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("Should list low stock products by id", func(t *testing.T) {
		repo := newRepo(t)
		created := seed(t, repo,
			newProduct("Z", "Cat", "1.00", 0, nil),
			newProduct("A", "Cat", "1.00", 4, nil),
			newProduct("M", "Cat", "1.00", 5, nil),
			newProduct("B", "Cat", "1.00", 2, nil),
		)

		ok, err := repo.DeactivateProduct(ctx, created[3].ID, baseTime.Add(time.Minute))
		require.NoError(t, err)
		require.True(t, ok)

		products, err := repo.ListLowStockProducts(ctx, model.LowStockThreshold)
		require.NoError(t, err)
		assert.Equal(t, []int64{created[0].ID, created[1].ID}, ids(products))
	})

	t.Run("Should update active product", func(t *testing.T) {
		repo := newRepo(t)
		created := seed(t, repo, newProduct("Mouse", "Electronics", "29.99", 50, nil))[0]
		later := baseTime.Add(time.Hour)

		updated, err := repo.UpdateActiveProduct(ctx, created.ID, func(p *model.Product) error {
			p.Price = decimal.RequireFromString("24.99")
			p.StockQuantity = 0
			p.Description = ptr.New("Wireless")
			p.UpdatedAt = later
			p.CreatedAt = later
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.True(t, baseTime.Equal(updated.CreatedAt))
		assert.True(t, later.Equal(updated.UpdatedAt))

		got, err := repo.GetActiveProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("24.99").Equal(got.Price))
		assert.Equal(t, 0, got.StockQuantity)
		require.NotNil(t, got.Description)
		assert.Equal(t, "Wireless", *got.Description)
		assert.Equal(t, "Mouse", got.Name)
		assert.True(t, baseTime.Equal(got.CreatedAt))
		assert.True(t, later.Equal(got.UpdatedAt))
	})

	t.Run("Should not persist when update function fails", func(t *testing.T) {
		repo := newRepo(t)
		created := seed(t, repo, newProduct("Mouse", "Electronics", "29.99", 50, nil))[0]
		errBoom := errors.New("boom")

		_, err := repo.UpdateActiveProduct(ctx, created.ID, func(p *model.Product) error {
			p.Name = "Changed"
			return errBoom
		})
		assert.ErrorIs(t, err, errBoom)

		got, err := repo.GetActiveProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mouse", got.Name)
	})

	t.Run("Should deactivate product once", func(t *testing.T) {
		repo := newRepo(t)
		created := seed(t, repo,
			newProduct("Mouse", "Electronics", "29.99", 50, nil),
			newProduct("Keyboard", "Electronics", "49.99", 2, nil),
		)

		ok, err := repo.DeactivateProduct(ctx, created[0].ID, baseTime.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.DeactivateProduct(ctx, created[0].ID, baseTime.Add(2*time.Minute))
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.DeactivateProduct(ctx, 9999, baseTime)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = repo.GetActiveProduct(ctx, created[0].ID)
		assert.ErrorIs(t, err, repository.ErrProductNotFound)

		_, err = repo.UpdateActiveProduct(ctx, created[0].ID, func(*model.Product) error { return nil })
		assert.ErrorIs(t, err, repository.ErrProductNotFound)

		count, err := repo.CountActiveProducts(ctx, repository.ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		total, err := repo.CountProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})
}

func TestParseProductSortField(t *testing.T) {
	tests := []struct {
		in   string
		want repository.ProductSortField
	}{
		{"price", repository.ProductSortByPrice},
		{"PRICE", repository.ProductSortByPrice},
		{"Stock", repository.ProductSortByStock},
		{"category", repository.ProductSortByCategory},
		{"created", repository.ProductSortByCreatedAt},
		{"name", repository.ProductSortByName},
		{"", repository.ProductSortByName},
		{"rating", repository.ProductSortByName},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, repository.ParseProductSortField(tt.in))
		})
	}
}
