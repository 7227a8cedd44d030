package handlers

import (
	"endify/app"

	"github.com/gofiber/fiber/v2"
)

func GetStats(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := a.Tasks.Productivity(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to compute statistics", err)
		}
		return success(c, fiber.Map{"stats": stats})
	}
}
