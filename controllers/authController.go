package controllers

import (
	"log"
	"strings"
	"time"

	"enquiries-backend/config"
	"enquiries-backend/middlewares"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Login verifies the configured admin identity and sets the session cookie.
// A broken auth configuration fails closed with 500, never by accepting
// whatever credentials arrive.
func Login(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "Bad request"})
	}

	if err := config.ValidateAuthConfig(); err != nil {
		log.Printf("[AUTH] login blocked, bad config: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "Server auth not configured",
			"code":  "AUTH_MISCONFIGURED",
		})
	}

	email := strings.TrimSpace(data["email"])
	password := data["password"]

	adminEmail := config.AdminEmail()
	adminHash := config.AdminPasswordHash()

	emailMatches := strings.EqualFold(email, adminEmail)
	passMatches := bcrypt.CompareHashAndPassword([]byte(adminHash), []byte(password)) == nil
	if !emailMatches || !passMatches {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false, "error": "Invalid credentials"})
	}

	token, err := middlewares.GenerateSession(adminEmail, middlewares.RoleAdmin)
	if err != nil {
		log.Printf("[AUTH] session signing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "error": "Could not create session"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middlewares.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(middlewares.SessionTTL),
		MaxAge:   int(middlewares.SessionTTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"ok": true})
}

// Logout clears the session cookie.
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middlewares.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"ok": true})
}

// EnvCheck reports whether the auth configuration is usable, without
// exposing any of its values.
func EnvCheck(c *fiber.Ctx) error {
	if err := config.ValidateAuthConfig(); err != nil {
		return c.JSON(fiber.Map{"ok": false, "reason": err.Error()})
	}
	return c.JSON(fiber.Map{"ok": true})
}
