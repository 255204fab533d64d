package http

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber app with middleware and routes.
// A nil accessLog disables request logging.
func NewApp(handler *Handler, accessLog io.Writer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "WeatherDash API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	if accessLog != nil {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
			Output: accessLog,
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	SetupRoutes(app, handler)
	return app
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// Weather page
	app.Get("/", handler.Index)
	app.Get("/weather", handler.Index)
	app.Post("/weather", handler.Search)

	// Favorites
	app.Post("/favorites", handler.SaveFavorite)
	app.Delete("/favorites/:id", handler.RemoveFavorite)

	// JSON endpoint used by AJAX
	app.Get("/api/combined/:city", handler.Combined)
}

// ErrorHandler renders unexpected errors as JSON
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
