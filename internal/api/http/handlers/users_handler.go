package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Behnamfe76/user-auth-service/internal/api/dto"
	"github.com/Behnamfe76/user-auth-service/internal/auth"
	"github.com/Behnamfe76/user-auth-service/internal/service"
)

// UsersHandler exposes account endpoints for authenticated callers.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Me handles GET /api/users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.CurrentIdentity(c)
	if !ok {
		return auth.ErrServerError
	}
	return c.JSON(dto.UserResponse{
		Status: "success",
		Data:   dto.UserData{User: dto.FilterUser(user)},
	})
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	var query dto.ListQuery
	if err := c.QueryParser(&query); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid query")
	}
	if err := query.Validate(); err != nil {
		return err
	}
	query = query.Normalized()

	users, err := h.users.List(c.UserContext(), query.Limit, query.Offset())
	if err != nil {
		return err
	}

	return c.JSON(dto.UserListResponse{
		Status:  "success",
		Users:   dto.FilterUsers(users),
		Results: len(users),
	})
}
