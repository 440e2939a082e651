// Package router builds the Fiber application serving the catalog routes.
package router

import (
	"catalog/internal/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Options tunes the Fiber application.
type Options struct {
	// BodyLimit is the maximum request body size in bytes. Zero keeps Fiber's default.
	BodyLimit int
	// DisableLogger turns off the request logger, mostly for tests.
	DisableLogger bool
}

// New returns a Fiber app with every product route registered.
func New(productHandler *handlers.ProductHandler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "catalog",
		BodyLimit:             opts.BodyLimit,
		DisableStartupMessage: true,
	})

	if !opts.DisableLogger {
		app.Use(logger.New()) // Request logger
	}

	productHandler.RegisterRoutes(app)

	// Anything unrouted, including a known path with another method, is not found.
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	return app
}
