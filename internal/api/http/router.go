package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/incident-panel/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Incidents *handlers.IncidentsHandler
	Users     *handlers.UsersHandler
	// Panel is optional; the UI is not mounted when nil.
	Panel   *handlers.PanelHandler
	Metrics http.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	incidents := app.Group("/incidents")
	incidents.Post("/", cfg.Incidents.CreateIncident)
	incidents.Get("/", cfg.Incidents.ListIncidents)
	incidents.Get("/:id", cfg.Incidents.GetIncident)
	incidents.Patch("/:id", cfg.Incidents.UpdateIncident)

	users := app.Group("/users")
	users.Post("/", cfg.Users.CreateUser)
	users.Get("/", cfg.Users.ListUsers)

	if cfg.Panel != nil {
		app.Get("/", cfg.Panel.Show)
		panel := app.Group("/panel")
		panel.Post("/incidents", cfg.Panel.CreateIncident)
		panel.Post("/users", cfg.Panel.CreateUser)
		panel.Post("/incidents/:id/status", cfg.Panel.ChangeStatus)
		panel.Post("/incidents/:id/assignee", cfg.Panel.ChangeAssignee)
	}
}
