package routes

import (
	"github.com/iproutreach/quiz_platform/handlers"
	"github.com/iproutreach/quiz_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api")

	quiz := api.Group("/quiz")
	quiz.Get("/get-all", handlers.GetAllQuizzes)
	quiz.Get("/get-sub-quizzes/:quizId", handlers.GetSubQuizzes)
	quiz.Get("/get-quiz-questions/:id", middleware.Protected(), handlers.GetQuizQuestions)
	quiz.Post("/submit", middleware.Protected(), handlers.SubmitQuiz)
	quiz.Post("/generate-certificate", middleware.Protected(), handlers.GenerateAndEmailCertificate)
	quiz.Post("/download-certificate", middleware.Protected(), handlers.GenerateAndDownloadCertificate)

	admin := quiz.Group("", middleware.Protected(), middleware.AdminRequired())
	admin.Post("/create", handlers.CreateQuiz)
	admin.Post("/update/:id", handlers.UpdateQuiz)
	admin.Post("/delete/:id", handlers.DeleteQuiz)
}
