package handlers

import (
	"endify/app"
	"endify/models"

	"github.com/gofiber/fiber/v2"
)

func GetPreferences(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		prefs, err := a.Preferences.Get(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch preferences", err)
		}
		return success(c, fiber.Map{"preferences": prefs})
	}
}

func UpdatePreferences(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdatePreferencesRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationError(c, err)
		}

		if err := a.Preferences.SetTheme(c.UserContext(), req.Theme); err != nil {
			return serverErrorWithDetails(c, "Failed to save preferences", err)
		}
		return success(c, fiber.Map{"preferences": models.Preferences{Theme: req.Theme}})
	}
}
