package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures gin's validator so struct field names in
// validation errors come from json/form tags instead of Go identifiers.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// ValidationErrorMessages flattens validator errors into field:message
// pairs suitable for an error response body.
func ValidationErrorMessages(err error) map[string]string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	messages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages[e.Field()] = "is required"
		case "uuid":
			messages[e.Field()] = "must be a valid UUID"
		case "email":
			messages[e.Field()] = "must be a valid email address"
		case "max":
			messages[e.Field()] = "must be at most " + e.Param() + " characters"
		case "min":
			messages[e.Field()] = "must be at least " + e.Param() + " characters"
		case "gt":
			messages[e.Field()] = "must be greater than " + e.Param()
		case "gte":
			messages[e.Field()] = "must be at least " + e.Param()
		default:
			messages[e.Field()] = "failed validation rule " + e.Tag()
		}
	}
	return messages
}
