package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flexoffice/booking-service/internal/api/http/handlers"
	"github.com/flexoffice/booking-service/internal/auth"
	"github.com/flexoffice/booking-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Sessions       *handlers.SessionsHandler
	Spaces         *handlers.SpacesHandler
	Bookings       *handlers.BookingsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/sessions", cfg.Sessions.Create)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/sessions/current", cfg.Sessions.Current)

	protected.Get("/spaces", cfg.Spaces.List)
	protected.Get("/spaces/:id", cfg.Spaces.Get)
	protected.Get("/spaces/:id/bookings", auth.RequireRole(domain.RoleManager, domain.RoleAdmin), cfg.Spaces.Bookings)

	protected.Post("/bookings", cfg.Bookings.Create)
	protected.Get("/bookings/mine", cfg.Bookings.ListMine)
	protected.Get("/bookings/:id", cfg.Bookings.Get)
	protected.Get("/bookings/:id/qr", cfg.Bookings.QRCode)
	protected.Delete("/bookings/:id", cfg.Bookings.Cancel)
}
