package routes

import (
	"github.com/iproutreach/quiz_platform/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", handlers.StudentSignup)
	auth.Post("/login", handlers.StudentLogin)
}
