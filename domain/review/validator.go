package review

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "bookreviews-backend/pkg/errors"
)

var validate = validator.New()

// Validate checks a candidate review against the schema: bookId, bookTitle
// and authorName non-empty, rating in [1,5], reviewText length in [10,5000].
// userId and username pass through unchecked. Returns a ValidationError
// naming the violated rules, or nil.
func Validate(r Review) error {
	if err := validate.Struct(r); err != nil {
		return apperrors.NewValidationError(formatValidationError(err))
	}
	return nil
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	var messages []string
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}
	return strings.Join(messages, "; ")
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := lowerFirst(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
