package handlers

import (
	"backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
)

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  validation.Errors(err),
	})
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

func invalidID(c *fiber.Ctx) error {
	return message(c, fiber.StatusBadRequest, "Invalid ID format")
}
