package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Status and department mutations are left
// open to any authenticated actor on purpose: the routing engine owns the
// role check so a citizen receives the documented Forbidden error, not a
// generic middleware rejection.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	protected.Post("/complaints", cfg.Complaints.Create)
	protected.Get("/complaints", cfg.Complaints.List)
	protected.Get("/complaints/:id", cfg.Complaints.Get)
	protected.Patch("/complaints/:id/status", cfg.Complaints.UpdateStatus)
	protected.Patch("/complaints/:id/department", cfg.Complaints.UpdateDepartment)

	dashboard := protected.Group("", auth.RequireRole(domain.RoleSupport, domain.RoleAdmin))
	dashboard.Get("/stats", cfg.Complaints.Stats)
}
