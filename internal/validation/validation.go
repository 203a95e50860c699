package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"backoffice/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New returns a validator that knows the custom tags used by request bodies:
//
//	objectid  24-character hex identifier
//	password  at least one uppercase letter and one digit
//
// decimal.Decimal fields validate as float64 so numeric tags (gt, gte) work.
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return models.IsValidID(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	return v
}

// IsStrongPassword reports whether s has an uppercase letter and a digit.
// Length is checked separately with the min tag.
func IsStrongPassword(s string) bool {
	var upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && digit
}

// Errors flattens validator errors into a field -> message map. Other
// errors are returned under the "body" key.
func Errors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = err.Error()
		return out
	}
	for _, e := range verrs {
		out[fieldPath(e)] = message(e)
	}
	return out
}

// fieldPath drops the root struct name: "CreateSaleRequest.details[0].product"
// becomes "details[0].product".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "objectid":
		return "must be a 24-character hex id"
	case "password":
		return "must contain an uppercase letter and a number"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "dive":
		return "is invalid"
	default:
		return fmt.Sprintf("failed on the '%s' tag", e.Tag())
	}
}
