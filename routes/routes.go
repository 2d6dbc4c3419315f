package routes

import (
	"github.com/gofiber/fiber/v2"

	"enquiries-backend/controllers"
	"enquiries-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/health", controllers.Health)

	// Public admin auth endpoints
	api.Post("/admin/login", controllers.Login)
	api.Post("/admin/logout", controllers.Logout)
	api.Get("/admin/envcheck", controllers.EnvCheck)

	// Public enquiry submission, with double-post protection
	api.Post("/enquiries", middlewares.Idempotency(), controllers.CreateEnquiry)

	// Protected endpoints (session cookie)
	protected := api.Group("")
	protected.Use(middlewares.RequireSession())

	protected.Get("/enquiries", controllers.GetEnquiries)
	protected.Get("/enquiries/:id", controllers.GetEnquiry)

	// Mutations run inside a per-request transaction so the update and its
	// audit row commit together
	protected.Patch("/enquiries/:id", middlewares.RequestTx(), controllers.UpdateEnquiry)

	protected.Get("/admin/triage", controllers.GetTriage)
}
