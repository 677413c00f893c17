package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tokobuku/internal/apperror"
	"tokobuku/internal/models"
)

const userLocal = "user"

// Authenticator resolves the user behind a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Protect requires a valid "Bearer <token>" header and attaches the token's
// user to the request.
func Protect(auth Authenticator, lg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return apperror.Unauthorized("Not authorized, no token")
		}

		user, err := auth.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			lg.Debug("JWT validation failed", zap.Error(err))
			return apperror.Unauthorized("Not authorized, token failed")
		}

		c.Locals(userLocal, user)
		return c.Next()
	}
}

// AdminOnly lets the request through only for administrators. It must run
// after Protect.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user := CurrentUser(c); user == nil || !user.IsAdmin {
			return apperror.Unauthorized("Not authorized as an admin")
		}
		return c.Next()
	}
}

// CurrentUser returns the user attached by Protect, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocal).(*models.User)
	return user
}
