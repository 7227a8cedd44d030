package handlers

import (
	"endify/app"
	"endify/models"

	"github.com/gofiber/fiber/v2"
)

// ListTasks returns every task, filtered by the optional q query parameter
func ListTasks(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tasks, err := a.Tasks.Search(c.UserContext(), c.Query("q"))
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch tasks", err)
		}
		return success(c, fiber.Map{"tasks": tasks, "count": len(tasks)})
	}
}

// GetTask retrieves a single task
func GetTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := taskID(c)
		if err != nil {
			return badRequest(c, err.Error())
		}

		task, err := a.Tasks.Get(c.UserContext(), id)
		if err != nil {
			return taskError(c, "Failed to fetch task", err)
		}
		return success(c, fiber.Map{"task": task})
	}
}

// CreateTask stores a new task and schedules its reminder
func CreateTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateTaskRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationError(c, err)
		}

		task, err := a.Tasks.Create(c.UserContext(), req)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to create task", err)
		}
		return created(c, fiber.Map{"task": task})
	}
}

// UpdateTask replaces the fields of an existing task
func UpdateTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := taskID(c)
		if err != nil {
			return badRequest(c, err.Error())
		}

		var req models.UpdateTaskRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationError(c, err)
		}

		task, err := a.Tasks.Update(c.UserContext(), id, req)
		if err != nil {
			return taskError(c, "Failed to update task", err)
		}
		return success(c, fiber.Map{"task": task})
	}
}

// ToggleTask flips the completed flag
func ToggleTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := taskID(c)
		if err != nil {
			return badRequest(c, err.Error())
		}

		task, err := a.Tasks.Toggle(c.UserContext(), id)
		if err != nil {
			return taskError(c, "Failed to update task", err)
		}
		return success(c, fiber.Map{"task": task})
	}
}

// DeleteTask removes a task and its reminder
func DeleteTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := taskID(c)
		if err != nil {
			return badRequest(c, err.Error())
		}

		if err := a.Tasks.Delete(c.UserContext(), id); err != nil {
			return taskError(c, "Failed to delete task", err)
		}
		return success(c, fiber.Map{"success": true})
	}
}
