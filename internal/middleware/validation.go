package middleware

import (
	"github.com/gofiber/fiber/v2"

	"quiz-drill/internal/validation"
)

const (
	LocalSessionID = "validated_session_id"
	LocalLimit     = "validated_limit"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	if v == nil {
		v = validation.NewValidator()
	}
	return &ValidationMiddleware{validator: v}
}

// ValidateSessionID checks the :id path parameter is a ULID.
func (vm *ValidationMiddleware) ValidateSessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errs := vm.validator.ValidateSessionID(id); len(errs) > 0 {
			return errs // This will be handled by ErrorHandler middleware
		}
		c.Locals(LocalSessionID, id)
		return c.Next()
	}
}

// ValidateLimit parses the optional limit query parameter.
func (vm *ValidationMiddleware) ValidateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, errs := vm.validator.ValidateLimit(c.Query("limit"))
		if len(errs) > 0 {
			return errs
		}
		c.Locals(LocalLimit, limit)
		return c.Next()
	}
}
