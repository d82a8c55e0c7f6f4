package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Messages renders a binding error into one message per failed rule.
// Non-validator errors (malformed JSON, wrong types) collapse into a
// single generic message.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid request format"}
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, DefaultMessage(toSnakeCase(e.Field()), e.Tag()))
	}
	return messages
}

// Summary joins field messages into the single envelope message string.
func Summary(err error) string {
	return strings.Join(Messages(err), "; ")
}

func DefaultMessage(field, tag string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s is below the minimum length or value", field)
	case "max":
		return fmt.Sprintf("%s exceeds the maximum length or value", field)
	case "len":
		return fmt.Sprintf("%s must have an exact length", field)
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the allowed values", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// toSnakeCase converts struct field names (FirstName) to the JSON
// field names clients sent (first_name).
func toSnakeCase(s string) string {
	var result []rune
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			result = append(result, '_')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}
