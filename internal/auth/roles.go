package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Behnamfe76/user-auth-service/internal/domain"
)

// CheckRole permits user when its role is one of allowed. A nil user means
// the auth middleware did not run, which is a wiring fault.
func CheckRole(user *domain.User, allowed ...domain.UserRole) error {
	if user == nil {
		return ErrServerError
	}
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return ErrPermissionsDenied
}

// RequireRoles ensures the authenticated user has one of the allowed roles.
// It must be mounted after AuthMiddleware.Handle.
func RequireRoles(allowed ...domain.UserRole) fiber.Handler {
	roles := append([]domain.UserRole(nil), allowed...)

	return func(c *fiber.Ctx) error {
		user, _ := CurrentIdentity(c)
		if err := CheckRole(user, roles...); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures some user is attached to the request.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentIdentity(c); !ok {
			return ErrServerError
		}
		return c.Next()
	}
}
