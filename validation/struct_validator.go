// Package validation validates structs through `validate` tags using
// go-playground/validator and reports failures as *errors.AppError.
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/ntfywatch/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Prefer json, then mapstructure tag names so messages match what users wrote.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "mapstructure"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return toSnakeCase(fld.Name)
		})
	})
	return validate
}

// Validate validates a struct using struct tags such as
// `validate:"required,url"`. Nested slices are checked with `dive`.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed").WithCause(err)
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))

	for _, e := range validationErrors {
		fieldName := fieldPath(e)
		message := formatValidationError(e)
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldName,
			Message: message,
		})
		messages = append(messages, fieldName+": "+message)
	}

	return errors.Validation(strings.Join(messages, "; ")).WithDetail("fields", fieldErrors)
}

// fieldPath drops the top-level struct name from the namespace,
// e.g. "Config.subscriptions[0].topic" becomes "subscriptions[0].topic".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if idx := strings.IndexByte(ns, '.'); idx >= 0 {
		return ns[idx+1:]
	}
	return e.Field()
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "url":
		return "must be a valid URL"
	case "http_url":
		return "must be a valid http(s) URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "excludes":
		return "must not contain " + e.Param()
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
