package apierr

import (
	"errors"
	"net/http"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/inventory-service/internal/apperr"
	"github.com/tuanvumaihuynh/inventory-service/internal/http/dto"
	"github.com/tuanvumaihuynh/inventory-service/pkg/validator"
	"github.com/tuanvumaihuynh/inventory-service/pkg/zerror"
)

// ErrorResponse is the error response for the API.
type ErrorResponse struct {
	dto.ErrorResponse

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

// RequestError reports a request parameter or body that could not be decoded.
type RequestError struct {
	// Param is the name of the offending parameter, or "body".
	Param string
	Err   error
}

func NewRequestError(param string, err error) *RequestError {
	return &RequestError{Param: param, Err: err}
}

func (e *RequestError) Error() string {
	return "invalid " + e.Param + ": " + e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func New(err error) ErrorResponse {
	return errorToErrorResponse(err)
}

var InternalServerErr = ErrorResponse{
	ErrorResponse: dto.ErrorResponse{
		Code:    "internalServerError",
		Message: "an unknown error occurred",
	},
	StatusCode: http.StatusInternalServerError,
}

func errorToErrorResponse(err error) ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return ErrorResponse{
			ErrorResponse: dto.ErrorResponse{
				Code:    apperr.ValidationErrorCode,
				Message: "invalid request",
				Details: &[]dto.FieldError{{
					Field:   reqErr.Param,
					Message: reqErr.Err.Error(),
				}},
			},
			StatusCode: http.StatusBadRequest,
		}
	}

	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return ErrorResponse{
			ErrorResponse: dto.ErrorResponse{
				Code:    zErr.Code(),
				Message: zErr.Msg(),
			},
			StatusCode: ZErrorStatusToHTTPStatus(zErr.Status()),
		}
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]dto.FieldError, len(validationErrs))
		for i, fe := range validationErrs {
			details[i] = dto.FieldError{
				Field:   fe.Field(),
				Message: validator.ValidationErrorMessage(fe),
			}
		}

		return ErrorResponse{
			ErrorResponse: dto.ErrorResponse{
				Code:    "validationError",
				Message: "validation error",
				Details: &details,
			},
			StatusCode: http.StatusBadRequest,
		}
	}

	return InternalServerErr
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusBadRequest:
		return http.StatusBadRequest
	case zerror.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
