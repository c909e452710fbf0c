package errors

import (
	stderrors "errors"
	"fmt"
	"html"

	"github.com/go-playground/validator/v10"
)

// Request segments a validation failure can come from.
const (
	SourceBody  = "body"
	SourceQuery = "query"
	SourceParam = "params"
)

// FromValidation flattens a request-binding failure into a VALIDATION error.
// validator.ValidationErrors become one detail entry for source; any other
// binding failure (malformed JSON, wrong types) keeps its own message.
func FromValidation(source string, err error) *Error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return New(KindValidation, "Validation error", ValidationDetail{
			Source:  source,
			Keys:    []string{},
			Message: []string{err.Error()},
		})
	}

	detail := ValidationDetail{
		Source:  source,
		Keys:    make([]string, 0, len(verrs)),
		Message: make([]string, 0, len(verrs)),
	}
	for _, fe := range verrs {
		detail.Keys = append(detail.Keys, html.EscapeString(fe.Field()))
		detail.Message = append(detail.Message, fieldMessage(fe))
	}

	return New(KindValidation, "Validation error", detail)
}

// fieldMessage renders a single field failure in human-readable form.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "email":
		return fmt.Sprintf("%q must be a valid email", fe.Field())
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%q must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%q must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", fe.Field())
	}
}
