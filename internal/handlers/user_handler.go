package handlers

import (
	"errors"

	"backoffice/internal/middleware"
	"backoffice/internal/models"
	"backoffice/internal/services"
	"backoffice/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user administration. Every route is admin-only.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validation.New(),
	}
}

// RegisterRoutes registers the user routes on an authenticated router.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users", middleware.RequireRole(models.RoleAdmin))
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// UpdateUserRequest is the body of user update.
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required,min=3,max=100"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=employee admin"`
}

func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Users retrieved",
		"users":   users,
	})
}

func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if !models.IsValidID(id) {
		return invalidID(c)
	}
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	req.Email = services.NormalizeEmail(req.Email)
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, err := h.service.UpdateUser(id, services.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  models.Role(req.Role),
	})
	if err != nil {
		return h.userError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User updated",
		"user":    user,
	})
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if !models.IsValidID(id) {
		return invalidID(c)
	}
	if err := h.service.DeleteUser(id); err != nil {
		return h.userError(c, err)
	}
	return message(c, fiber.StatusOK, "User deleted")
}

func (h *UserHandler) userError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return message(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrEmailTaken):
		return message(c, fiber.StatusConflict, "Email already registered")
	}
	return err
}
