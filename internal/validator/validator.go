package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// phoneRgx accepts international numbers with optional +, spaces,
// dashes and parentheses.
var phoneRgx = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{5,18}[0-9]$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("phone", validatePhone)

	return validator
}

func validatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true
	}

	return phoneRgx.MatchString(phone)
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", err.Param())
	case "phone":
		return "must be a valid phone number"
	default:
		return "is invalid"
	}
}
