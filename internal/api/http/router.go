package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maxelo/hr-portal/internal/api/http/handlers"
	"github.com/maxelo/hr-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Profile       *handlers.ProfileHandler
	Dashboard     *handlers.DashboardHandler
	Leave         *handlers.LeaveHandler
	Message       *handlers.MessageHandler
	Todo          *handlers.TodoHandler
	Document      *handlers.DocumentHandler
	Employee      *handlers.EmployeeHandler
	Announcement  *handlers.AnnouncementHandler
	SessionLoader *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes under /api/v1.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1", cfg.SessionLoader.Handle)

	authGroup := api.Group("/auth")
	authGroup.Post("/employee/login", cfg.Auth.EmployeeLogin)
	authGroup.Post("/admin/login", cfg.Auth.AdminLogin)
	authGroup.Post("/logout", auth.RequireAuthenticated(), cfg.Auth.Logout)
	authGroup.Post("/password/forgot", cfg.Auth.ForgotPassword)
	authGroup.Post("/password/reset", cfg.Auth.ResetPassword)

	profile := api.Group("/profile", auth.RequireAuthenticated())
	profile.Get("/", cfg.Profile.Get)
	profile.Put("/", cfg.Profile.Update)
	profile.Post("/password", cfg.Profile.ChangePassword)

	employee := api.Group("/employee", auth.RequireEmployee())
	employee.Get("/dashboard", cfg.Dashboard.EmployeeHome)
	employee.Get("/notifications", cfg.Dashboard.EmployeeNotifications)

	employee.Get("/leave", cfg.Leave.ListOwn)
	employee.Post("/leave", cfg.Leave.Submit)

	employee.Get("/messages", cfg.Message.Inbox)
	employee.Post("/messages", cfg.Message.Send)
	employee.Get("/admin-messages", cfg.Message.SentToAdmin)
	employee.Post("/admin-messages", cfg.Message.ContactAdmin)

	employee.Get("/todos", cfg.Todo.List)
	employee.Post("/todos", cfg.Todo.Add)
	employee.Post("/todos/:id/toggle", cfg.Todo.Toggle)
	employee.Delete("/todos/:id", cfg.Todo.Delete)

	employee.Get("/documents", cfg.Document.List)
	employee.Post("/documents", cfg.Document.Register)
	employee.Delete("/documents/:id", cfg.Document.Delete)

	admin := api.Group("/admin", auth.RequireAdmin())
	admin.Get("/dashboard", cfg.Dashboard.AdminHome)
	admin.Get("/notifications", cfg.Dashboard.AdminNotifications)

	admin.Get("/leave-requests", cfg.Leave.ListAll)
	admin.Put("/leave-requests/:id", cfg.Leave.Decide)

	admin.Get("/messages", cfg.Message.AdminQueue)
	admin.Post("/messages/broadcast", cfg.Message.Broadcast)
	admin.Post("/messages/:id/respond", cfg.Message.Respond)
	admin.Post("/messages/:id/read", cfg.Message.MarkRead)

	admin.Get("/todos", cfg.Todo.ListAssignments)
	admin.Post("/todos", cfg.Todo.Assign)

	admin.Get("/documents", cfg.Document.ListAll)

	admin.Get("/employees", cfg.Employee.List)
	admin.Post("/employees", cfg.Employee.Create)
	admin.Get("/employees/:id", cfg.Employee.Get)
	admin.Put("/employees/:id", cfg.Employee.Update)
	admin.Delete("/employees/:id", cfg.Employee.Delete)
	admin.Post("/employees/:id/toggle-active", cfg.Employee.ToggleActive)
	admin.Post("/employees/:id/documents", cfg.Document.RegisterForEmployee)

	admin.Get("/announcements", cfg.Announcement.ListAll)
	admin.Post("/announcements", cfg.Announcement.Create)
	admin.Put("/announcements/:id/active", cfg.Announcement.SetActive)
}
