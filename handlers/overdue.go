package handlers

import (
	"endify/app"
	"endify/middleware"
	"endify/models"

	"github.com/gofiber/fiber/v2"
)

// GetOverdue lists overdue tasks along with the next one still waiting for
// a decision
func GetOverdue(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		overdue, err := a.Overdue.Overdue(ctx)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch overdue tasks", err)
		}
		next, err := a.Overdue.NextOverdue(ctx)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch overdue tasks", err)
		}

		return success(c, fiber.Map{"tasks": overdue, "next": next})
	}
}

// ResolveOverdue applies complete, reschedule or ignore to an overdue task
func ResolveOverdue(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := taskID(c)
		if err != nil {
			return badRequest(c, err.Error())
		}

		var req models.OverdueActionRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationError(c, err)
		}
		c.Locals(middleware.ActionKey, req.Action)

		task, err := a.Overdue.ResolveOverdue(c.UserContext(), id, req.Action)
		if err != nil {
			return taskError(c, "Failed to resolve overdue task", err)
		}
		return success(c, fiber.Map{"task": task, "action": req.Action})
	}
}
