package setup

import (
	"endify/app"
	"endify/handlers"
	"endify/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App, apiToken string) {
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api := fiberApp.Group("/api", middleware.TokenRequired(apiToken))

	api.Get("/tasks", handlers.ListTasks(application))
	api.Post("/tasks", handlers.CreateTask(application))
	api.Get("/tasks/:id", handlers.GetTask(application))
	api.Put("/tasks/:id", handlers.UpdateTask(application))
	api.Post("/tasks/:id/toggle", handlers.ToggleTask(application))
	api.Delete("/tasks/:id", handlers.DeleteTask(application))

	api.Get("/overdue", handlers.GetOverdue(application))
	api.Post("/overdue/:id", handlers.ResolveOverdue(application))

	api.Get("/reminders", handlers.ListPendingReminders(application))
	api.Get("/reminders/inbox", handlers.ListDeliveredReminders(application))
	api.Post("/reminders/:id/action", handlers.ReminderAction(application))

	api.Get("/stats", handlers.GetStats(application))

	api.Get("/preferences", handlers.GetPreferences(application))
	api.Put("/preferences", handlers.UpdatePreferences(application))
}
