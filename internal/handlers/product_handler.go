package handlers

import (
	"errors"
	"strings"

	"backoffice/internal/middleware"
	"backoffice/internal/models"
	"backoffice/internal/services"
	"backoffice/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validation.New(),
	}
}

// RegisterRoutes registers the product routes on an authenticated router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	admin := middleware.RequireRole(models.RoleAdmin)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search/name", h.HandleSearchByName)
	productRoutes.Get("/filter/category", h.HandleFilterByCategory)
	productRoutes.Get("/filter/price", h.HandleFilterByPrice)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", admin, h.HandleCreateProduct)
	productRoutes.Put("/:id", admin, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", admin, h.HandleDeleteProduct)
}

// CreateProductRequest is the body of product creation.
type CreateProductRequest struct {
	CategoryID string          `json:"categoryId" validate:"required,objectid"`
	Name       string          `json:"name" validate:"required,min=3,max=100"`
	Price      decimal.Decimal `json:"price" validate:"gt=0"`
	Stock      *int            `json:"stock" validate:"required,gte=0"`
}

// UpdateProductRequest is the body of product update.
type UpdateProductRequest struct {
	CategoryID string          `json:"categoryId" validate:"omitempty,objectid"`
	Name       string          `json:"name" validate:"required,min=3,max=100"`
	Price      decimal.Decimal `json:"price" validate:"gt=0"`
	Stock      *int            `json:"stock" validate:"required,gte=0"`
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":  "Products retrieved",
		"products": products,
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !models.IsValidID(id) {
		return invalidID(c)
	}
	product, err := h.service.GetProductByID(id)
	if err != nil {
		return h.productError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product retrieved",
		"product": product,
	})
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product := &models.Product{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Price:      req.Price,
		Stock:      *req.Stock,
	}
	if err := h.service.CreateProduct(product); err != nil {
		return h.productError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created",
		"product": product,
	})
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if !models.IsValidID(id) {
		return invalidID(c)
	}
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.service.UpdateProduct(id, services.UpdateProductInput{
		Name:       req.Name,
		Price:      req.Price,
		Stock:      *req.Stock,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return h.productError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product updated",
		"product": product,
	})
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if !models.IsValidID(id) {
		return invalidID(c)
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return h.productError(c, err)
	}
	return message(c, fiber.StatusOK, "Product deleted")
}

// HandleSearchByName answers 404 when nothing matches.
func (h *ProductHandler) HandleSearchByName(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return message(c, fiber.StatusBadRequest, "Query parameter 'name' is required")
	}
	products, err := h.service.SearchByName(name)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return message(c, fiber.StatusNotFound, "No products match that name")
	}
	return c.JSON(fiber.Map{
		"message":  "Products found",
		"products": products,
	})
}

func (h *ProductHandler) HandleFilterByCategory(c *fiber.Ctx) error {
	categoryID := c.Query("categoryId")
	if !models.IsValidID(categoryID) {
		return message(c, fiber.StatusBadRequest, "Query parameter 'categoryId' must be a 24-character hex id")
	}
	products, err := h.service.FilterByCategory(categoryID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":  "Products retrieved",
		"products": products,
	})
}

func (h *ProductHandler) HandleFilterByPrice(c *fiber.Ctx) error {
	min, errMin := decimal.NewFromString(c.Query("minPrice"))
	max, errMax := decimal.NewFromString(c.Query("maxPrice"))
	if errMin != nil || errMax != nil {
		return message(c, fiber.StatusBadRequest, "minPrice and maxPrice must be numbers")
	}
	products, err := h.service.FilterByPrice(min, max)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPriceRange) {
			return message(c, fiber.StatusBadRequest, "minPrice must not be negative or greater than maxPrice")
		}
		return err
	}
	return c.JSON(fiber.Map{
		"message":  "Products retrieved",
		"products": products,
	})
}

func (h *ProductHandler) productError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return message(c, fiber.StatusNotFound, "Product not found")
	case errors.Is(err, services.ErrCategoryNotFound):
		return message(c, fiber.StatusBadRequest, "Category does not exist")
	}
	return err
}
