package routes

import (
	"github.com/iproutreach/quiz_platform/handlers"
	"github.com/iproutreach/quiz_platform/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func AnalyticsRoutes(app *fiber.App) {
	api := app.Group("/api")

	analytics := api.Group("/analytics", middleware.Protected(), middleware.AdminRequired())
	analytics.Get("/dashboard/:quizId", handlers.GetAnalyticsDashboard)
	analytics.Get("/export/:quizId", handlers.ExportQuizResults)
	analytics.Get("/export-users", handlers.ExportAllUsers)

	app.Use("/ws/analytics", middleware.Protected(), middleware.AdminRequired(), func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		token := c.Locals("user").(*jwt.Token)
		claims := token.Claims.(jwt.MapClaims)
		c.Locals("user_id", claims["user_id"].(string))
		return c.Next()
	})
	app.Get("/ws/analytics", handlers.LiveSubmissionFeed())
}
