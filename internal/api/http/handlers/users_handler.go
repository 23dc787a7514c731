package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-panel/internal/api/dto"
	"github.com/spec-kit/incident-panel/internal/service"
	"github.com/spec-kit/incident-panel/internal/validation"
)

// UsersHandler serves the user endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler creates handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// CreateUser POST /users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	input, err := validation.ValidateUserCreate(c.Body())
	if err != nil {
		return err
	}
	user, err := h.service.CreateUser(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// ListUsers GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserList(users))
}
