package v1

import (
	"github.com/gofiber/fiber/v2"

	"konsol-admin/internal/api/v1/handlers"
	"konsol-admin/internal/auth"
	"konsol-admin/internal/middleware"
)

// RegisterRoutes mendaftarkan seluruh route aplikasi. Setiap group
// terlindungi dijaga RequirePermission sesuai tag halamannya; sesi
// dipulihkan sekali per request oleh UseSession sebelum guard jalan.
func RegisterRoutes(app *fiber.App, d handlers.Deps) {
	app.Use(middleware.ErrorHandler())
	app.Use(middleware.UseSession(d.Auth, d.Secret))

	// route publik
	app.Get("/", handlers.Root(d))
	app.Get("/unauthorized", handlers.Unauthorized())

	api := app.Group("/api/v1")
	api.Post("/login", handlers.Login(d))
	api.Post("/logout", handlers.Logout(d))

	dashboard := api.Group("/dashboard", middleware.RequirePermission(auth.PermDashboard))
	dashboard.Get("/", handlers.Dashboard(d))

	employees := api.Group("/employees", middleware.RequirePermission(auth.PermEmployees))
	employees.Get("/", handlers.ListEmployees(d))
	employees.Post("/", handlers.CreateEmployee(d))
	employees.Get("/:id", handlers.GetEmployee(d))
	employees.Put("/:id", handlers.UpdateEmployee(d))
	employees.Delete("/:id", handlers.DeleteEmployee(d))

	projects := api.Group("/projects", middleware.RequirePermission(auth.PermProjects))
	projects.Get("/", handlers.ListProjects(d))
	projects.Post("/", handlers.CreateProject(d))
	projects.Get("/:id", handlers.GetProject(d))

	tasks := api.Group("/tasks", middleware.RequirePermission(auth.PermTasks))
	tasks.Get("/", handlers.ListTasks(d))
	tasks.Get("/options", handlers.TaskOptions(d))
	tasks.Post("/", handlers.CreateTask(d))
	tasks.Put("/:id", handlers.UpdateTask(d))
	tasks.Delete("/:id", handlers.DeleteTask(d))

	// selain route di atas: 404
	app.Use(handlers.NotFound())
}
