package main

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerValidators installs the custom password strength rule on gin's
// validator engine. Safe to call more than once.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("strongpwd", strongPassword)
	}
}

// strongPassword requires at least one lowercase, uppercase, digit, and
// special character. Length bounds come from min/max tags.
func strongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit, special bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// bindingErrorMessage maps a binding failure to the message shown to the
// client, first failed field only.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "email":
		return "Please provide a valid email address"
	case "strongpwd":
		return field + " must contain lowercase, uppercase, numbers, and special characters"
	case "eqfield":
		return "Password and Confirm Password must match"
	}
	return strings.ToLower(field) + " is invalid"
}
