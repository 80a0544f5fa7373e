package users

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

var validate = validator.New()

// validateCreateInput applies the form checks in a fixed order; the first
// failure wins and nothing is mutated. Order: required personal fields, then
// email format, then at least one assignment.
func validateCreateInput(input CreateUserInput) error {
	if strings.TrimSpace(input.FirstName) == "" {
		return fmt.Errorf("%w: first name is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(input.LastName) == "" {
		return fmt.Errorf("%w: last name is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(input.Email) == "" {
		return fmt.Errorf("%w: email is required", httpx.ErrValidation)
	}
	if input.Password == "" {
		return fmt.Errorf("%w: password is required", httpx.ErrValidation)
	}
	if err := validate.Var(input.Email, "email"); err != nil {
		return fmt.Errorf("%w: email address is not valid", httpx.ErrValidation)
	}
	if len(input.Selections) == 0 && !input.SuperAdmin {
		return fmt.Errorf("%w: at least one role assignment is required", httpx.ErrValidation)
	}
	return nil
}
