package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/inventory-service/internal/apperr"
	"github.com/tuanvumaihuynh/inventory-service/internal/http/apierr"
	"github.com/tuanvumaihuynh/inventory-service/pkg/validator"
	"github.com/tuanvumaihuynh/inventory-service/pkg/zerror"
)

func TestNew(t *testing.T) {
	t.Run("Should map wrapped not found", func(t *testing.T) {
		err := fmt.Errorf("get product: %w", apperr.ProductNotFoundErr.WrapParent(errors.New("no rows")))

		res := apierr.New(err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, apperr.ProductNotFoundErrorCode, res.Code)
		assert.Nil(t, res.Details)
	})

	t.Run("Should list validation failures", func(t *testing.T) {
		type input struct {
			Name string `json:"name" validate:"required"`
		}
		err := validator.NewDefaultValidator().Validate(input{})

		res := apierr.New(fmt.Errorf("create product: %w", err))
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "validationError", res.Code)
		require.NotNil(t, res.Details)
		require.Len(t, *res.Details, 1)
		assert.Equal(t, "name", (*res.Details)[0].Field)
		assert.Equal(t, "field is required", (*res.Details)[0].Message)
	})

	t.Run("Should report request errors by parameter", func(t *testing.T) {
		res := apierr.New(apierr.NewRequestError("page", errors.New("not a number")))

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, apperr.ValidationErrorCode, res.Code)
		require.NotNil(t, res.Details)
		assert.Equal(t, "page", (*res.Details)[0].Field)
	})

	t.Run("Should hide unexpected errors", func(t *testing.T) {
		res := apierr.New(errors.New("connection reset"))

		assert.Equal(t, apierr.InternalServerErr, res)
	})
}

func TestZErrorStatusToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, apierr.ZErrorStatusToHTTPStatus(zerror.StatusBadRequest))
	assert.Equal(t, http.StatusNotFound, apierr.ZErrorStatusToHTTPStatus(zerror.StatusNotFound))
	assert.Equal(t, http.StatusInternalServerError, apierr.ZErrorStatusToHTTPStatus(zerror.StatusUnknown))
}
