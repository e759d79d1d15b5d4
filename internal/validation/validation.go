// Package validation checks request shapes with go-playground/validator,
// the engine gin runs on bind. Rules live in `binding` struct tags so the
// same input types are checked whether they arrive over HTTP or are passed
// to a service directly.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/go-playground/validator/v10"
)

const tagName = "binding"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	Configure(v)
	return v
}

// Configure makes v read `binding` tags and report fields by their JSON
// names. The api package applies it to gin's engine as well.
func Configure(v *validator.Validate) {
	v.SetTagName(tagName)
	v.RegisterTagNameFunc(jsonName)
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Struct validates s and returns the first failure as a
// *domain.ValidationError.
func Struct(s any) error {
	return Translate(validate.Struct(s))
}

// Var validates a single value against tag, reporting failures under field.
func Var(field string, value any, tag string) error {
	err := Translate(validate.Var(value, tag))
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		verr.Field = field
	}
	return err
}

// Translate turns validator.ValidationErrors into a *domain.ValidationError
// for the first failing field. Other errors pass through unchanged.
func Translate(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return domain.NewValidationError(fe.Field(), reason(fe))
}

func reason(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("must be at most %s%s", fe.Param(), unit)
	case "len":
		return fmt.Sprintf("must be exactly %s%s", fe.Param(), unit)
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "alpha":
		return "must contain only letters"
	default:
		return "failed the " + fe.Tag() + " check"
	}
}
