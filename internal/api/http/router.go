package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Sessions in the forced-reset state can
// only reach the password reset endpoint; the dashboard requires a fully
// authenticated session and is gated per role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/auth/password/reset",
		auth.RequireState(domain.SessionStateMustReset), cfg.Auth.ResetPassword)

	api := protected.Group("", auth.RequireState(domain.SessionStateAuthenticated))
	api.Post("/auth/logout", cfg.Auth.Logout)
	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Patch("/tickets/:id/status",
		auth.RequireRole(domain.RoleAdmin, domain.RoleCoAdmin), cfg.Tickets.UpdateStatus)

	admin := api.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Post("/users", cfg.Users.CreateUser)
	admin.Get("/users/:email", cfg.Users.GetUser)
	admin.Get("/stats", cfg.Tickets.Stats)
}
