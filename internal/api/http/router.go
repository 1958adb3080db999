package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chamadopetro/chamado-service/internal/api/http/handlers"
	"github.com/chamadopetro/chamado-service/internal/auth"
	"github.com/chamadopetro/chamado-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Stats)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	tickets := api.Group("/tickets")
	tickets.Get("/dashboard/metrics", cfg.Tickets.Dashboard)
	tickets.Get("/technicians", cfg.Tickets.Technicians)
	tickets.Get("/priorities", cfg.Tickets.Priorities)
	tickets.Get("/statuses", cfg.Tickets.Statuses)
	tickets.Get("/reports/resolved", cfg.Tickets.Report)
	tickets.Get("/reports/resolved.csv", cfg.Tickets.ExportReport)
	tickets.Get("/import/template.csv", cfg.Tickets.ImportTemplate)
	tickets.Post("/import/preview", cfg.Tickets.PreviewImport)
	tickets.Post("/import", cfg.Tickets.ImportTickets)
	tickets.Get("/ticket/:ticketId", cfg.Tickets.GetTicketByCode)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)

	users := api.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	users.Get("/stats", cfg.Users.UserStats)
	users.Get("/", cfg.Users.ListUsers)
	users.Post("/", cfg.Users.CreateUser)
	users.Get("/:id", cfg.Users.GetUser)
	users.Put("/:id", cfg.Users.UpdateUser)
	users.Patch("/:id/toggle-status", cfg.Users.ToggleUserStatus)
	users.Delete("/:id", cfg.Users.DeleteUser)
}
