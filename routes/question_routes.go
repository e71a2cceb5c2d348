package routes

import (
	"github.com/iproutreach/quiz_platform/handlers"
	"github.com/iproutreach/quiz_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuestionRoutes(app *fiber.App) {
	api := app.Group("/api")

	questions := api.Group("/questions", middleware.Protected())
	questions.Post("/get-questions", handlers.GetQuestionsByTags)

	admin := questions.Group("", middleware.AdminRequired())
	admin.Post("/upload", handlers.UploadQuestions)
	admin.Post("/create", handlers.CreateQuestion)
	admin.Get("/category", handlers.FindAllCategories)
	admin.Get("/languages", handlers.GetAllLanguages)
	admin.Get("/categories-by-difficulty", handlers.GetCategoriesByDifficulty)
	admin.Delete("/delete-all", handlers.DeleteAllQuestions)
}
