package middleware

import (
	"log"
	"strings"

	"trackbox/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserKey is the Fiber locals key under which AuthRequired stores the
// resolved *models.User.
const UserKey = "user"

// AuthRequired verifies the bearer token and resolves its subject to a
// stored user before letting the request through. Both an invalid token and
// a token whose user no longer exists answer 401, so the response does not
// distinguish a forged token from a deleted account.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		user, err := authService.ResolveUser(claims)
		if err != nil {
			log.Printf("Identity resolution failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}
