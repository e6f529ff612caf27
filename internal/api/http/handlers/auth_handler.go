package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Behnamfe76/user-auth-service/internal/api/dto"
	"github.com/Behnamfe76/user-auth-service/internal/auth"
	"github.com/Behnamfe76/user-auth-service/internal/service"
)

// AuthHandler exposes registration, login and logout.
type AuthHandler struct {
	auth       *service.AuthService
	cookieName string
	secure     bool
}

// NewAuthHandler constructs handler. secure marks the session cookie Secure.
func NewAuthHandler(authService *service.AuthService, cookieName string, secure bool) *AuthHandler {
	if cookieName == "" {
		cookieName = auth.DefaultTokenCookie
	}
	return &AuthHandler{auth: authService, cookieName: cookieName, secure: secure}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.UserResponse{
		Status: "success",
		Data:   dto.UserData{User: dto.FilterUser(user)},
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(h.auth.TokenTTL() / time.Second),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(dto.LoginResponse{Status: "success", Token: session.Token})
}

// Logout handles POST /api/auth/logout by expiring the session cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, _ := auth.CurrentIdentity(c)
	h.auth.Logout(c.UserContext(), user)

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(dto.Response{Status: "success", Message: "logged out"})
}
