package middleware

import (
	"errors"

	"estate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

var ErrNoSessionUser = errors.New("no user in session")

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUser(c) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) map[string]interface{} {
	m, _ := c.Locals(userLocal).(map[string]interface{})
	return m
}

// CurrentUserID parses user_id of the session user.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	user := GetUser(c)
	if user == nil {
		return uuid.Nil, ErrNoSessionUser
	}
	s, _ := user["user_id"].(string)
	return uuid.Parse(s)
}

// CurrentRole returns the session user's role, or "" when not logged in.
func CurrentRole(c *fiber.Ctx) string {
	user := GetUser(c)
	if user == nil {
		return ""
	}
	r, _ := user["role"].(string)
	return r
}
