package auth

import (
	"github.com/gofiber/fiber/v2"
)

// RoleMiddleware validates the caller's role against an allow list.
func RoleMiddleware(allowedRoles []string, forbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalUserRole).(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: missing role information",
			})
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		if forbiddenMessage == "" {
			forbiddenMessage = "Forbidden: you are not authorized to access this resource"
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": forbiddenMessage,
		})
	}
}

// OnlyRoles is the short form used when mounting routes.
func OnlyRoles(message string, roles ...string) fiber.Handler {
	return RoleMiddleware(roles, message)
}
