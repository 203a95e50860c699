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

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validation.New(),
	}
}

// RegisterRoutes registers the category routes on an authenticated router.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	admin := middleware.RequireRole(models.RoleAdmin)

	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
	categoryRoutes.Post("/", admin, h.HandleCreateCategory)
	categoryRoutes.Put("/:id", admin, h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", admin, h.HandleDeleteCategory)
}

// CategoryRequest is the body of create and update.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":    "Categories retrieved",
		"categories": categories,
	})
}

func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !models.IsValidID(id) {
		return invalidID(c)
	}
	category, err := h.service.GetCategoryByID(id)
	if err != nil {
		return h.categoryError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Category retrieved",
		"category": category,
	})
}

func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	category := &models.Category{Name: req.Name, Description: req.Description}
	if err := h.service.CreateCategory(category); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Category created",
		"category": category,
	})
}

func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if !models.IsValidID(id) {
		return invalidID(c)
	}
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	category, err := h.service.UpdateCategory(id, req.Name, req.Description)
	if err != nil {
		return h.categoryError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Category updated",
		"category": category,
	})
}

func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if !models.IsValidID(id) {
		return invalidID(c)
	}
	if err := h.service.DeleteCategory(id); err != nil {
		return h.categoryError(c, err)
	}
	return message(c, fiber.StatusOK, "Category deleted")
}

func (h *CategoryHandler) categoryError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrCategoryNotFound) {
		return message(c, fiber.StatusNotFound, "Category not found")
	}
	return err
}
