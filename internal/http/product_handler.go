package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/inventory-service/internal/apperr"
	"github.com/tuanvumaihuynh/inventory-service/internal/http/apierr"
	"github.com/tuanvumaihuynh/inventory-service/internal/http/dto"
	"github.com/tuanvumaihuynh/inventory-service/internal/service"
)

const maxBodyBytes = 1 << 20

type productHandler struct {
	productSvc  service.ProductService
	maxPageSize int
}

func newProductHandler(productSvc service.ProductService, maxPageSize int) *productHandler {
	return &productHandler{
		productSvc:  productSvc,
		maxPageSize: maxPageSize,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()
	params := service.ListProductsParams{
		Page:     service.DefaultPage,
		PageSize: service.DefaultPageSize,
	}

	if err := bindQuery(query, "category", &params.Category); err != nil {
		return err
	}
	if err := bindQuery(query, "search", &params.Search); err != nil {
		return err
	}
	if err := bindQuery(query, "sortBy", &params.SortBy); err != nil {
		return err
	}
	if err := bindQuery(query, "sortDescending", &params.SortDescending); err != nil {
		return err
	}
	if err := bindQuery(query, "page", &params.Page); err != nil {
		return err
	}
	if err := bindQuery(query, "pageSize", &params.PageSize); err != nil {
		return err
	}

	if h.maxPageSize > 0 && params.PageSize > h.maxPageSize {
		return apperr.PageSizeTooLargeErr
	}

	page, err := h.productSvc.ListProducts(r.Context(), params)
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	writeJSON(w, http.StatusOK, dto.NewPagedResult(page))
	return nil
}

func (h *productHandler) ListLowStockProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.productSvc.ListLowStockProducts(r.Context())
	if err != nil {
		return fmt.Errorf("product service list low stock products: %w", err)
	}

	writeJSON(w, http.StatusOK, dto.NewProductResponses(products))
	return nil
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindProductID(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	writeJSON(w, http.StatusOK, dto.NewProductResponse(product))
	return nil
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var body dto.CreateProductRequest
	if err := decodeBody(w, r, &body); err != nil {
		return err
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Name:          body.Name,
		Description:   body.Description,
		Price:         body.Price,
		StockQuantity: body.StockQuantity,
		Category:      body.Category,
	})
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	w.Header().Set("Location", "/api/products/"+strconv.FormatInt(product.ID, 10))
	writeJSON(w, http.StatusCreated, dto.NewProductResponse(product))
	return nil
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindProductID(r)
	if err != nil {
		return err
	}

	var body dto.UpdateProductRequest
	if err := decodeBody(w, r, &body); err != nil {
		return err
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), id, service.UpdateProductParams{
		Name:          body.Name,
		Description:   body.Description,
		Price:         body.Price,
		StockQuantity: body.StockQuantity,
		Category:      body.Category,
	})
	if err != nil {
		return fmt.Errorf("product service update product: %w", err)
	}

	writeJSON(w, http.StatusOK, dto.NewProductResponse(product))
	return nil
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindProductID(r)
	if err != nil {
		return err
	}

	ok, err := h.productSvc.DeleteProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}
	if !ok {
		return apperr.ProductNotFoundErr
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// bindQuery decodes an optional query parameter into dst, leaving dst
// untouched when the parameter is absent.
func bindQuery[T any](query url.Values, name string, dst *T) error {
	var v *T
	if err := runtime.BindQueryParameter("form", true, false, name, query, &v); err != nil {
		return apierr.NewRequestError(name, err)
	}
	if v != nil {
		*dst = *v
	}
	return nil
}

func bindProductID(r *http.Request) (int64, error) {
	var id int64
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		}); err != nil {
		return 0, apierr.NewRequestError("id", err)
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.NewRequestError("body", err)
	}
	return nil
}
