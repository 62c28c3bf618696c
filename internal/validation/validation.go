// Package validation checks dispatcher inputs before they reach the client
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hession/npmate/internal/apperr"
)

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their flag/json name rather than the Go field name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, key := range []string{"flag", "json"} {
			name := strings.Split(field.Tag.Get(key), ",")[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	return v
}

// Struct validates payload and returns an input-kind error listing every
// failed field
func Struct(payload any) error {
	err := structValidator.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperr.Input("invalid input: %v", err)
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		messages = append(messages, formatMessage(fieldErr))
	}
	return apperr.Input("%s", strings.Join(messages, "; "))
}

func formatMessage(err validator.FieldError) string {
	field := err.Field()
	switch err.Tag() {
	case "required", "required_if", "required_with":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s item(s)", field, err.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, err.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with %s", field, err.Param())
	}

	if tag := err.Tag(); tag == "ip" || strings.HasPrefix(tag, "cidr") {
		return fmt.Sprintf("%s must be an IP address or CIDR range", field)
	}
	return fmt.Sprintf("%s failed %s validation", field, err.Tag())
}
