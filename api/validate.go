package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var validationMessages = map[string]string{
	"required": "is required",
	"max":      "is too long",
	"oneof":    "must be one of: %s",
}

func formatValidationErrors(err error) map[string]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}
	details := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		message, ok := validationMessages[e.Tag()]
		if !ok {
			message = "failed validation: " + e.Tag()
		}
		if strings.Contains(message, "%s") {
			message = strings.Replace(message, "%s", e.Param(), 1)
		}
		details[e.Field()] = message
	}
	return details
}

// failedOn reports whether err is a validation failure on the named field.
func failedOn(err error, field string) bool {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return false
	}
	for _, e := range validationErrs {
		if e.Field() == field {
			return true
		}
	}
	return false
}
