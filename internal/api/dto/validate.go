package dto

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

var validate = validator.New()

// Validate runs struct-tag validation and converts failures into a domain
// validation error with one message per offending field.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := map[string]any{}
	for _, fe := range fieldErrors {
		details[fe.Field()] = fieldError(fe)
	}
	return apperrors.NewValidationError("invalid payload", details)
}

func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "eqfield":
		return fmt.Sprintf("must match %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

const dateLayout = "2006-01-02"

// ParseDate parses a required YYYY-MM-DD field.
func ParseDate(field, value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid date", map[string]any{field: "must be YYYY-MM-DD"})
	}
	return parsed, nil
}

// ParseOptionalDate parses a YYYY-MM-DD field that may be empty.
func ParseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
