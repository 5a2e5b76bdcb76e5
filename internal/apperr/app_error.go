package apperr

import "github.com/tuanvumaihuynh/inventory-service/pkg/zerror"

const (
	ValidationErrorCode      = "VALIDATION_FAILED"
	ProductNotFoundErrorCode = "PRODUCT_NOT_FOUND"
	PageSizeTooLargeCode     = "PAGE_SIZE_TOO_LARGE"
)

var (
	ProductNotFoundErr  = zerror.NewNotFound(ProductNotFoundErrorCode, "product not found")
	PageSizeTooLargeErr = zerror.NewBadRequest(PageSizeTooLargeCode, "page size exceeds the allowed maximum")
)
