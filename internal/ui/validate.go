package ui

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks a request struct before it goes anywhere near the
// network and returns a user-facing message, or "" when the input is fine.
func validateInput(v interface{}) string {
	err := validate.Struct(v)
	if err == nil {
		return ""
	}

	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) && len(invalid) > 0 {
		e := invalid[0]
		switch e.Tag() {
		case "required":
			return e.Field() + " is required"
		case "email":
			return "Enter a valid email address"
		case "min":
			return e.Field() + " is too short"
		case "max":
			return e.Field() + " is too long"
		case "len", "numeric":
			return e.Field() + " must be a " + e.Param() + "-digit code"
		case "oneof":
			return e.Field() + " must be one of: " + e.Param()
		}
		return e.Field() + " is invalid"
	}

	return "Invalid input"
}
