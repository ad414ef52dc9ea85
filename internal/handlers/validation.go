package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/inkspire/inkspire-client/internal/validation"
)

// ParseValidationErrors converts gin binding errors to field errors
func ParseValidationErrors(err error) []validation.FieldError {
	var fields []validation.FieldError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			fields = append(fields, validation.FieldError{
				Field:   fieldError.Field(),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return fields
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must not exceed " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// bindDetails describes why a request body could not be decoded
func bindDetails(err error) any {
	if fields := ParseValidationErrors(err); len(fields) > 0 {
		return fields
	}
	return map[string]string{"message": err.Error()}
}
