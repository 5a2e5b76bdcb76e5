package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/inventory-service/pkg/opt"
)

// PriceTag validates a money amount stored as NUMERIC(18,2): between MinPrice
// and MaxPrice with at most two decimal places. It accepts decimal.Decimal,
// *decimal.Decimal and opt.Field[decimal.Decimal] fields.
const PriceTag = "price"

var (
	MinPrice = decimal.New(1, -2)
	MaxPrice = decimal.RequireFromString("9999999999999999.99")
)

// Validator is a validator that validates the given struct.
type Validator interface {
	// Validate validates the given struct
	Validate(s any) error
}

type DefaultValidator struct {
	v *validator.Validate
}

// NewDefaultValidator creates a new default validator.
//
// Field errors are reported under their JSON names. decimal.Decimal values are
// compared as numbers, and opt.Field values are validated as pointers so that
// an absent field is skipped by omitempty while a supplied zero is still checked.
func NewDefaultValidator() *DefaultValidator {
	v := validator.New()

	v.RegisterTagNameFunc(jsonFieldName)

	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.RegisterCustomTypeFunc(optionalValue,
		opt.Field[string]{},
		opt.Field[int]{},
		opt.Field[decimal.Decimal]{},
	)

	//nolint:errcheck
	v.RegisterValidation(PriceTag, validPrice)

	return &DefaultValidator{v: v}
}

func (v DefaultValidator) Validate(s any) error {
	return v.v.Struct(s)
}

// IsValidationError checks if the given error is a validation error
func IsValidationError(err error) bool {
	_, ok := err.(validator.ValidationErrors)
	return ok
}

func ValidationErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case PriceTag:
		return fmt.Sprintf("must be between %s and %s with at most 2 decimal places",
			MinPrice.StringFixed(2), MaxPrice.StringFixed(2))
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return "is invalid"
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return d.InexactFloat64()
}

func optionalValue(field reflect.Value) any {
	type validationValuer interface {
		ValidationValue() any
	}

	v, ok := field.Interface().(validationValuer)
	if !ok {
		return nil
	}
	return v.ValidationValue()
}

// validPrice checks the original decimal rather than the float64 seen through
// decimalValue, so the scale and bounds are exact.
func validPrice(fl validator.FieldLevel) bool {
	d, ok := decimalField(fl)
	if !ok {
		return false
	}
	return d.GreaterThanOrEqual(MinPrice) &&
		d.LessThanOrEqual(MaxPrice) &&
		d.Equal(d.Truncate(2))
}

func decimalField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return decimal.Decimal{}, false
	}

	field := parent.FieldByName(fl.StructFieldName())
	if !field.IsValid() || !field.CanInterface() {
		return decimal.Decimal{}, false
	}

	switch v := field.Interface().(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Decimal{}, false
		}
		return *v, true
	case opt.Field[decimal.Decimal]:
		return v.Get()
	default:
		return decimal.Decimal{}, false
	}
}
