// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"prize-trainer/ports"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
	LocalUserRole  = "user_role"
)

// bearerToken accepts "Bearer <token>" or a raw token.
func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// UserContextMiddleware verifies the access token and attaches the caller's
// identity for handlers.
func UserContextMiddleware(sessions ports.SessionProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := sessions.Authenticate(c.UserContext(), bearerToken(c))
		if err != nil {
			log.Printf("🚫 [USER_CTX] %s %s rejected: %v", c.Method(), c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
				"cause": err.Error(),
			})
		}

		c.Locals(LocalUserID, session.UserID)
		c.Locals(LocalUserEmail, session.Email)
		c.Locals(LocalUserRole, session.Role)
		return c.Next()
	}
}

// UserID returns the authenticated caller, or "" outside UserContextMiddleware.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
