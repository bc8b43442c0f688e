package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-tracker/internal/api/http/handlers"
	"github.com/spec-kit/project-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Projects       *handlers.ProjectsHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Reads on projects, tickets and user
// profiles are public; everything that mutates state requires a bearer token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/signup", cfg.Auth.Signup)
	app.Post("/login", cfg.Auth.Login)

	projects := app.Group("/projects")
	projects.Get("/", cfg.Projects.List)
	projects.Get("/:id", cfg.Projects.Get)
	projects.Post("/", cfg.AuthMiddleware.Handle, cfg.Projects.Create)
	projects.Put("/:id", cfg.AuthMiddleware.Handle, cfg.Projects.Edit)
	projects.Delete("/:id", cfg.AuthMiddleware.Handle, cfg.Projects.Delete)
	projects.Post("/:id/newticket", cfg.AuthMiddleware.Handle, cfg.Projects.NewTicket)
	projects.Post("/:id/addpersonnel", cfg.AuthMiddleware.Handle, cfg.Projects.AddPersonnel)
	projects.Post("/:id/removepersonnel", cfg.AuthMiddleware.Handle, cfg.Projects.RemovePersonnel)

	tickets := app.Group("/tickets")
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.AuthMiddleware.Handle, cfg.Tickets.Edit)
	tickets.Delete("/:id", cfg.AuthMiddleware.Handle, cfg.Tickets.Delete)
	tickets.Post("/:id/comment", cfg.AuthMiddleware.Handle, cfg.Tickets.Comment)

	comments := app.Group("/comments")
	comments.Get("/", cfg.AuthMiddleware.Handle, cfg.Comments.List)
	comments.Get("/:id", cfg.Comments.Get)
	comments.Put("/:id", cfg.AuthMiddleware.Handle, cfg.Comments.Edit)
	comments.Delete("/:id", cfg.AuthMiddleware.Handle, cfg.Comments.Delete)

	users := app.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.AuthMiddleware.Handle, cfg.Users.Edit)
	users.Delete("/:id", cfg.AuthMiddleware.Handle, cfg.Users.Delete)
	users.Post("/:id/assign", cfg.AuthMiddleware.Handle, cfg.Users.Assign)
	users.Post("/:id/remove", cfg.AuthMiddleware.Handle, cfg.Users.Remove)
}
