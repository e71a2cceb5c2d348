package routes

import (
	"github.com/iproutreach/quiz_platform/handlers"
	"github.com/iproutreach/quiz_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App) {
	api := app.Group("/api")

	upload := api.Group("/upload", middleware.Protected(), middleware.AdminRequired())
	upload.Get("/signature", handlers.GenerateUploadSignature)
}
