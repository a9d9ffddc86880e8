// Package validation wraps go-playground/validator and turns the first failing
// rule into a coded domain error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"pidstore/pkg/domain"
	dErrors "pidstore/pkg/domain-errors"
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("external_id", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseExternalID(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseTimestamp(fl.Field().String())
		return err == nil
	})
	return v
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Validate validates a struct using the default validator and returns a domain error.
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
			return dErrors.New(dErrors.CodeValidation, "invalid request body")
		}
		return toDomainError(validationErrs[0])
	}
	return nil
}

func toDomainError(fe validator.FieldError) error {
	field := fe.Field()
	if field == "" {
		field = fe.StructField()
	}

	switch fe.ActualTag() {
	case "required":
		return dErrors.Newf(dErrors.CodeMissingField, "%s is required", field)
	case "email":
		return dErrors.Newf(dErrors.CodeInvalidEmail, "%s must be a valid email address", field)
	case "external_id":
		return dErrors.Newf(dErrors.CodeMalformedIdentifier, "Invalid UUID format: %s", fieldValue(fe))
	case "iso8601":
		return dErrors.Newf(dErrors.CodeInvalidTimestamp, "%s must be an ISO 8601 date or date-time", field)
	default:
		return dErrors.Newf(dErrors.CodeValidation, "%s is invalid", field)
	}
}

func fieldValue(fe validator.FieldError) string {
	switch v := fe.Value().(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}
