package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Behnamfe76/user-auth-service/internal/domain"
)

type identityContextKey struct{}

// WithIdentity attaches the authenticated user to ctx.
func WithIdentity(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, identityContextKey{}, user)
}

// IdentityFromContext returns the user attached by the auth middleware.
func IdentityFromContext(ctx context.Context) (*domain.User, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(identityContextKey{}).(*domain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// CurrentIdentity retrieves the authenticated user of the request.
func CurrentIdentity(c *fiber.Ctx) (*domain.User, bool) {
	return IdentityFromContext(c.UserContext())
}
