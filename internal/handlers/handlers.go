package handlers

import (
	"trackbox/internal/middleware"
	"trackbox/internal/models"

	"github.com/gofiber/fiber/v2"
)

// currentUser returns the identity resolved by the auth middleware. Nil if
// the route was registered without AuthRequired.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(middleware.UserKey).(*models.User)
	return user
}
