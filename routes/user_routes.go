package routes

import (
	"github.com/iproutreach/quiz_platform/handlers"
	"github.com/iproutreach/quiz_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func UserRoutes(app *fiber.App) {
	api := app.Group("/api")

	user := api.Group("/user", middleware.Protected())
	user.Put("/update/:id", handlers.UpdateProfile)
	user.Post("/signout", handlers.Signout)
	user.Get("/past-quizzes", handlers.GetPastQuizzes)
}
