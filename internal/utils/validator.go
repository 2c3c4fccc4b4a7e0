package utils

import (
	"reflect"
	"strconv"

	"github.com/aaravmahajanofficial/pos-inventory/internal/barcode"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator returns a validator that understands decimal.Decimal fields
// and scale PLUs.
//
//	decimal_gt0   value > 0
//	decimal_gte0  value >= 0
//	decimal_lte   value <= param
//	decimal_scale at most param decimal places
//	plu           1 to 5 ASCII digits
func NewValidator() *validator.Validate {

	v := validator.New()

	// decimals are validated through their string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("decimal_gt0", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})

	_ = v.RegisterValidation("decimal_gte0", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})

	_ = v.RegisterValidation("decimal_lte", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		limit, err := decimal.NewFromString(fl.Param())
		return err == nil && d.LessThanOrEqual(limit)
	})

	_ = v.RegisterValidation("decimal_scale", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		places, err := strconv.ParseInt(fl.Param(), 10, 32)
		return err == nil && FitsScale(d, int32(places))
	})

	_ = v.RegisterValidation("plu", func(fl validator.FieldLevel) bool {
		_, err := barcode.NormalizePLU(fl.Field().String())
		return err == nil
	})

	return v
}

// FitsScale reports whether d has no significant digits past places.
// Trailing zeros do not count: 1.2500 fits a scale of 2.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
