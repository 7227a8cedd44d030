package handlers

import (
	"endify/app"
	"endify/middleware"
	"endify/models"

	"github.com/gofiber/fiber/v2"
)

func ListPendingReminders(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return success(c, fiber.Map{"reminders": a.Reminders.Pending()})
	}
}

func ListDeliveredReminders(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return success(c, fiber.Map{"reminders": a.Reminders.Delivered()})
	}
}

// ReminderAction answers a delivered reminder
func ReminderAction(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := taskID(c)
		if err != nil {
			return badRequest(c, err.Error())
		}

		var req models.ReminderActionRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationError(c, err)
		}
		c.Locals(middleware.ActionKey, req.Action)

		task, err := a.Reminders.HandleAction(c.UserContext(), id, req.Action)
		if err != nil {
			return taskError(c, "Failed to handle reminder", err)
		}
		return success(c, fiber.Map{"task": task, "action": req.Action})
	}
}
