package middleware

import (
	"fmt"
	"strconv"
	"study-buddy/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// ValidateIDParam rejects requests whose path parameter name is not a positive integer
// and stores the parsed value in the locals under the same name.
func ValidateIDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c.Params(name))
		if err != nil {
			return domain.ValidationErrors{domain.NewFieldError(name, fmt.Sprintf("%s must be a positive integer", name))}
		}
		c.Locals(name, id)
		return c.Next()
	}
}

// IDParam returns the value stored by ValidateIDParam.
func IDParam(c *fiber.Ctx, name string) int64 {
	id, _ := c.Locals(name).(int64)
	return id
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive: %d", id)
	}
	return id, nil
}
