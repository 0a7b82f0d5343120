package utils

import (
	goerrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationDetails flattens validator errors into a field -> reason map.
// Field names are the JSON names of the struct fields.
// It returns nil when err is not a validation error.
func ValidationDetails(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !goerrors.As(err, &validationErrors) {
		return nil
	}
	details := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		details[lowerFirst(fe.Field())] = formatValidationError(fe)
	}
	return details
}

// formatValidationError creates a user-friendly error message for a validation error.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ValidateNotEmpty checks if a string is not empty.
func ValidateNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

//Personal.AI order the ending
