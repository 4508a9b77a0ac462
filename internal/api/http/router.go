package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/timecard-bot/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Events    *handlers.EventsHandler
	Commands  *handlers.CommandsHandler
	Signature fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	slackGroup := app.Group("/slack", cfg.Signature)
	slackGroup.Post("/events", cfg.Events.Handle)
	slackGroup.Post("/commands", cfg.Commands.Handle)
}
