package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-math-solver/internal/config"
	"github.com/noah-isme/gema-math-solver/internal/handler"
	"github.com/noah-isme/gema-math-solver/internal/middleware"
	"github.com/noah-isme/gema-math-solver/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SolverHandler *handler.SolverHandler
	Page          fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.SolverHandler != nil {
		limit := middleware.RateLimit("solve", cfg.RateLimitMax, cfg.RateLimitWindow)

		deps.SolverHandler.Register(api, limit)
		deps.SolverHandler.RegisterFragment(app, limit)
	}

	// The page is registered last so API routes take precedence.
	if deps.Page != nil {
		app.Use("/", deps.Page)
	}
}
