package handlers

import (
	"errors"
	"strconv"
	"time"

	"backoffice/internal/middleware"
	"backoffice/internal/models"
	"backoffice/internal/services"
	"backoffice/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SaleHandler handles HTTP requests for sales.
type SaleHandler struct {
	service  *services.SaleService
	validate *validator.Validate
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(service *services.SaleService) *SaleHandler {
	return &SaleHandler{
		service:  service,
		validate: validation.New(),
	}
}

// RegisterRoutes registers the sale routes on an authenticated router.
// Sales are append-only, so there is no update or delete.
func (h *SaleHandler) RegisterRoutes(router fiber.Router) {
	saleRoutes := router.Group("/sales")
	saleRoutes.Get("/", h.HandleGetSales)
	saleRoutes.Get("/report", middleware.RequireRole(models.RoleAdmin), h.HandleSalesReport)
	saleRoutes.Get("/:id", h.HandleGetSaleByID)
	saleRoutes.Post("/", h.HandleCreateSale)
}

// SaleLineRequest is one requested line of a sale.
type SaleLineRequest struct {
	Product    string `json:"product" validate:"required,objectid"`
	AmountSold int    `json:"amountSold" validate:"required,gt=0"`
}

// CreateSaleRequest is the body of sale creation.
type CreateSaleRequest struct {
	Details []SaleLineRequest `json:"details" validate:"required,min=1,dive"`
}

// HandleCreateSale records a sale for the authenticated user.
func (h *SaleHandler) HandleCreateSale(c *fiber.Ctx) error {
	var req CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	items := make([]services.SaleItemInput, len(req.Details))
	for i, d := range req.Details {
		items[i] = services.SaleItemInput{ProductID: d.Product, AmountSold: d.AmountSold}
	}

	sale, err := h.service.CreateSale(c.UserContext(), middleware.UserID(c), items)
	if err != nil {
		var notFound *services.ProductNotFoundError
		switch {
		case errors.As(err, &notFound):
			return message(c, fiber.StatusNotFound, notFound.Error())
		case errors.Is(err, services.ErrInsufficientStock), errors.Is(err, services.ErrInvalidSale):
			return message(c, fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Sale registered successfully",
		"sale":    sale,
	})
}

// HandleGetSales lists sales filtered by startDate, endDate (YYYY-MM-DD,
// end inclusive) and userId. page and limit paginate the listing.
func (h *SaleHandler) HandleGetSales(c *fiber.Ctx) error {
	var filter services.SaleFilter

	start, err := parseDate(c.Query("startDate"))
	if err != nil {
		return message(c, fiber.StatusBadRequest, "startDate must be a date (YYYY-MM-DD)")
	}
	end, err := parseDate(c.Query("endDate"))
	if err != nil {
		return message(c, fiber.StatusBadRequest, "endDate must be a date (YYYY-MM-DD)")
	}
	filter.StartDate, filter.EndDate = start, end

	if userID := c.Query("userId"); userID != "" {
		if !models.IsValidID(userID) {
			return message(c, fiber.StatusBadRequest, "userId must be a 24-character hex id")
		}
		filter.UserID = userID
	}

	if filter.Page, err = positiveQuery(c, "page"); err != nil {
		return message(c, fiber.StatusBadRequest, "page must be a positive integer")
	}
	if filter.Limit, err = positiveQuery(c, "limit"); err != nil {
		return message(c, fiber.StatusBadRequest, "limit must be a positive integer")
	}
	if filter.Limit > 0 && filter.Page == 0 {
		filter.Page = 1
	}

	list, err := h.service.ListSales(filter)
	if err != nil {
		return err
	}

	resp := fiber.Map{
		"message": "Sales retrieved",
		"total":   list.Total,
		"sales":   list.Sales,
	}
	if list.Page > 0 {
		resp["page"] = list.Page
		resp["totalPages"] = list.TotalPages
	}
	return c.JSON(resp)
}

// HandleGetSaleByID retrieves a single sale by its ID.
func (h *SaleHandler) HandleGetSaleByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !models.IsValidID(id) {
		return invalidID(c)
	}
	sale, err := h.service.GetSale(id)
	if err != nil {
		if errors.Is(err, services.ErrSaleNotFound) {
			return message(c, fiber.StatusNotFound, "Sale not found")
		}
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Sale retrieved",
		"sale":    sale,
	})
}

// HandleSalesReport streams every sale as a PDF attachment.
func (h *SaleHandler) HandleSalesReport(c *fiber.Ctx) error {
	pdf, err := h.service.SalesReport()
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="sales_report.pdf"`)
	return c.Send(pdf)
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Empty input means no bound.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func positiveQuery(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("not a positive integer")
	}
	return n, nil
}
