// package validation provides helper functions for request data validation.
// It uses the go-playground/validator library and includes custom validation rules.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()

	customIDRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	// A bare number is accepted, the service adds the project prefix.
	issueKeyRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*-)?[0-9]+$`)
)

// init registers custom validation rules with the validator instance.
func init() {
	rules := map[string]*regexp.Regexp{
		// usernames
		"custom_id": customIDRe,
		"issue_key": issueKeyRe,
	}

	for tag, re := range rules {
		re := re
		err :=validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			value := strings.TrimSpace(fl.Field().String())
			if value == "" {
				// Allow empty strings to be handled by the 'required' tag.
				return true
			}

			return re.MatchString(value)
		})
		if err != nil {
			panic(fmt.Sprintf("failed to register custom validation %q: %v", tag, err))
		}
	}
}

// ValidationError is a custom error type that holds a slice of validation error messages.
type ValidationError struct {
	Errors []string
}

// Error returns a single string concatenating all validation error messages.
func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// ValidateStruct performs validation on a given struct based on its validation tags.
// If validation fails, it returns a *ValidationError with user-friendly messages.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors []string

		for _, err := range err.(validator.ValidationErrors) {
			var message string

			switch err.Tag() {
			case "custom_id":
				message = fmt.Sprintf(
					"field '%s' must contain only letters, numbers, dots, hyphens, and underscores",
					err.Field(),
				)
			case "issue_key":
				message = fmt.Sprintf(
					"field '%s' must be an issue key like PROJ-123 or a bare issue number",
					err.Field(),
				)
			default:
				message = fmt.Sprintf(
					"field '%s' failed on the '%s' tag",
					err.Field(),
					err.Tag(),
				)
			}
			validationErrors = append(validationErrors, message)
		}

		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
