package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-service/internal/api/http/handlers"
	"github.com/spec-kit/incident-service/internal/auth"
	"github.com/spec-kit/incident-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Issues         *handlers.IssuesHandler
	Departments    *handlers.DepartmentsHandler
	Employees      *handlers.EmployeesHandler
	Statuses       *handlers.StatusesHandler
	Roles          *handlers.RolesHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Issue submission and the reference data
// the reporting front renders are public; everything else sits behind the
// admin gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	api.Post("/auth/login", cfg.Auth.Login)
	api.Post("/auth/logout", cfg.Auth.Logout)

	api.Post("/issues", cfg.Issues.CreateIssue)
	api.Get("/statuses", cfg.Statuses.List)
	api.Get("/departments", cfg.Departments.List)
	api.Get("/departments/:id", cfg.Departments.Get)

	admin := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))

	admin.Get("/issues", cfg.Issues.ListIssues)
	admin.Put("/issues/:id", cfg.Issues.TransitionStatus)

	admin.Post("/departments", cfg.Departments.Create)
	admin.Put("/departments/:id", cfg.Departments.Update)
	admin.Delete("/departments/:id", cfg.Departments.Delete)

	admin.Get("/employees", cfg.Employees.List)
	admin.Get("/employees/:id", cfg.Employees.Get)
	admin.Post("/employees", cfg.Employees.Create)
	admin.Put("/employees/:id", cfg.Employees.Update)
	admin.Delete("/employees/:id", cfg.Employees.Delete)

	admin.Post("/statuses", cfg.Statuses.Create)
	admin.Put("/statuses/:id", cfg.Statuses.Update)
	admin.Delete("/statuses/:id", cfg.Statuses.Delete)

	admin.Get("/roles", cfg.Roles.List)
}
