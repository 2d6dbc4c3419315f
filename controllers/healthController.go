package controllers

import "github.com/gofiber/fiber/v2"

// Health is the liveness check.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}
