package auth

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	authorizationHeader = "Authorization"
	bearerScheme        = "Bearer"

	// DefaultTokenCookie is the cookie consulted when no bearer header is sent.
	DefaultTokenCookie = "token"
)

// AuthMiddleware validates session tokens and attaches the resolved user.
type AuthMiddleware struct {
	authenticator *Authenticator
	cookieName    string
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(authenticator *Authenticator, cookieName string) *AuthMiddleware {
	if cookieName == "" {
		cookieName = DefaultTokenCookie
	}
	return &AuthMiddleware{authenticator: authenticator, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := m.extractToken(c)
	if err != nil {
		m.authenticator.record(err)
		return err
	}

	ctx := c.UserContext()
	user, err := m.authenticator.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	// The request may have timed out while the store was queried.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrServerError, ctxErr)
	}

	c.SetUserContext(WithIdentity(ctx, user))
	return c.Next()
}

// extractToken prefers the bearer header and falls back to the cookie.
func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	if token, ok := bearerToken(c.Get(authorizationHeader)); ok {
		return token, nil
	}
	if token := strings.TrimSpace(c.Cookies(m.cookieName)); token != "" {
		return token, nil
	}
	return "", ErrTokenNotProvided
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
