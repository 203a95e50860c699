package server

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/config"
	"backoffice/internal/handlers"
	"backoffice/internal/middleware"
	"backoffice/internal/services"
	"backoffice/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Config     *config.Config
	Auth       *services.AuthService
	Categories *services.CategoryService
	Products   *services.ProductService
	Users      *services.UserService
	Sales      *services.SaleService

	// PingDB checks storage for /health. Nil means in-process storage.
	PingDB func(ctx context.Context) error
	// Events reports broker health. Nil means events are disabled.
	Events interface{ Healthy() bool }
}

// NewApp builds the Fiber app with middleware and every route.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      d.Config.App.Name,
		Views:        web.Engine(),
		ErrorHandler: errorHandler,
		BodyLimit:    1 << 20,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: log.Logger,
	}))
	app.Use(helmet.New())
	app.Use(cors.New())

	app.Get("/health", healthHandler(d))
	app.Get("/login", web.LoginPage(d.Config.App.Name))

	api := app.Group("/api", rateLimiter(d.Config.RateLimit.Max, d.Config.RateLimit.Window,
		"Too many requests, please try again later"))

	handlers.NewAuthHandler(d.Auth).RegisterRoutes(api,
		rateLimiter(d.Config.RateLimit.LoginMax, d.Config.RateLimit.LoginWindow,
			"Too many login attempts, please try again later"))

	protected := api.Group("", middleware.AuthRequired(d.Auth))
	handlers.NewCategoryHandler(d.Categories).RegisterRoutes(protected)
	handlers.NewProductHandler(d.Products).RegisterRoutes(protected)
	handlers.NewSaleHandler(d.Sales).RegisterRoutes(protected)
	handlers.NewUserHandler(d.Users).RegisterRoutes(protected)

	return app
}

// errorHandler answers anything a handler did not handle itself. Server
// errors are logged and replaced with a generic body.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Interface("request_id", c.Locals("requestid")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
		return c.Status(code).JSON(fiber.Map{"message": "Internal server error"})
	}
	return c.Status(code).JSON(fiber.Map{"message": fe.Message})
}

// rateLimiter limits requests per client IP. A non-positive max disables it.
func rateLimiter(max int, window time.Duration, msg string) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": msg})
		},
	})
}

func healthHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK

		database := "memory"
		if d.PingDB != nil {
			database = "up"
			if err := d.PingDB(c.UserContext()); err != nil {
				log.Warn().Err(err).Msg("health check: database unreachable")
				database = "down"
				status, code = "unhealthy", fiber.StatusServiceUnavailable
			}
		}

		events := "disabled"
		if d.Events != nil {
			events = "connected"
			if !d.Events.Healthy() {
				events = "disconnected"
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
			"events":   events,
		})
	}
}
