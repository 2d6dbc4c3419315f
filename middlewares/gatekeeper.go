package middlewares

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Gatekeeper denies unauthenticated access to /admin and /api paths before
// they reach the handlers. A fixed allow-list (login/logout/envcheck/health
// plus public enquiry creation) bypasses the check. This is defense in
// depth: protected handlers re-verify the session and role themselves, since
// the gatekeeper cannot evaluate per-route capability on its own.
func Gatekeeper() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		if isPublicPath(path) {
			return c.Next()
		}

		// Enquiry creation is public, but only for POST.
		if path == "/api/enquiries" && c.Method() == fiber.MethodPost {
			return c.Next()
		}

		// Everything outside /admin and /api is the public site.
		if !strings.HasPrefix(path, "/admin") && !strings.HasPrefix(path, "/api") {
			return c.Next()
		}

		if SessionFromRequest(c) != nil {
			return c.Next()
		}

		if strings.HasPrefix(path, "/api") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false, "error": "Unauthorized"})
		}

		// Page paths redirect to login, carrying the original path for the
		// post-login return trip.
		return c.Redirect("/admin/login?next="+url.QueryEscape(path), fiber.StatusFound)
	}
}

func isPublicPath(path string) bool {
	switch path {
	case "/admin/login",
		"/api/admin/login",
		"/api/admin/logout",
		"/api/admin/envcheck",
		"/api/health",
		"/favicon.ico":
		return true
	}
	return strings.HasPrefix(path, "/static/")
}
