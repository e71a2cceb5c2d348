package handlers

import (
	"fmt"

	"github.com/iproutreach/quiz_platform/database"
	"github.com/iproutreach/quiz_platform/models"
	"github.com/iproutreach/quiz_platform/services"
	ws "github.com/iproutreach/quiz_platform/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetAnalyticsDashboard recomputes a quiz's statistics from the full result
// set (all sub-quizzes when the target is a main quiz) rather than reading
// the incrementally maintained analytics row, and persists the recomputed
// values.
func GetAnalyticsDashboard(c *fiber.Ctx) error {
	quizID := c.Params("quizId")

	var quiz models.Quiz
	if err := database.DB.Preload("SubQuizzes").First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Quiz not found"})
	}

	data, err := services.RecomputeQuizAnalytics(database.DB, &quiz)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

var quizResultColumns = []string{
	"Quiz Title", "Language", "Name", "Email", "Mobile Number", "Date of Birth",
	"School Name", "Standard", "City", "Score", "Correct Answers",
	"Incorrect Answers", "Skipped Questions", "Time Taken (s)", "Submitted At",
}

// ExportQuizResults streams an XLSX of every result for the quiz (or its
// sub-quizzes when main).
func ExportQuizResults(c *fiber.Ctx) error {
	quizID := c.Params("quizId")

	var quiz models.Quiz
	if err := database.DB.Preload("SubQuizzes").First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Quiz not found"})
	}

	quizIDs := services.AggregateQuizIDs(&quiz)

	var results []models.QuizResult
	err := database.DB.Preload("User").Preload("Quiz").
		Where("quiz_id IN ?", quizIDs).
		Find(&results).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}
	if len(results) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "No results found for this quiz"})
	}

	workbook := excelize.NewFile()
	defer workbook.Close()
	sheet := workbook.GetSheetName(0)
	workbook.SetSheetName(sheet, "Quiz Results")
	sheet = "Quiz Results"

	for i, column := range quizResultColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		workbook.SetCellValue(sheet, cell, column)
	}

	rowIdx := 2
	for _, result := range results {
		if result.User == nil || result.Quiz == nil {
			continue
		}
		language := "N/A"
		if result.Quiz.Language != nil {
			language = *result.Quiz.Language
		}
		values := []interface{}{
			result.Quiz.Title,
			language,
			result.User.FullName(),
			result.User.Email,
			result.User.MobileNumber,
			result.User.DateOfBirth.Format("2006-01-02"),
			result.User.SchoolName,
			result.User.Standard,
			result.User.City,
			result.Score,
			result.CorrectAnswers,
			result.IncorrectAnswers,
			result.SkippedQuestions,
			result.TimeTaken,
			result.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		for i, value := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
			workbook.SetCellValue(sheet, cell, value)
		}
		rowIdx++
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to generate spreadsheet"})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s_results.xlsx", quiz.Title))
	return c.Send(buf.Bytes())
}

var userColumns = []string{
	"Name", "Email", "Mobile Number", "Date of Birth", "School Name",
	"Standard", "City", "Total Quizzes Taken", "Registration Date",
}

func ExportAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}
	if len(users) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "No users found"})
	}

	workbook := excelize.NewFile()
	defer workbook.Close()
	sheet := workbook.GetSheetName(0)
	workbook.SetSheetName(sheet, "Users Data")
	sheet = "Users Data"

	for i, column := range userColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		workbook.SetCellValue(sheet, cell, column)
	}

	for rowIdx, user := range users {
		values := []interface{}{
			user.FullName(),
			user.Email,
			user.MobileNumber,
			user.DateOfBirth.Format("2006-01-02"),
			user.SchoolName,
			user.Standard,
			user.City,
			user.TotalQuizzesTaken,
			user.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for i, value := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx+2)
			workbook.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to generate spreadsheet"})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=users_data.xlsx")
	return c.Send(buf.Bytes())
}

// LiveSubmissionFeed upgrades an admin connection and keeps it registered
// with the hub until the socket closes.
func LiveSubmissionFeed() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, err := uuid.Parse(conn.Locals("user_id").(string))
		if err != nil {
			conn.Close()
			return
		}

		client := &ws.Client{UserID: userID, Conn: conn}
		ws.Register <- client
		defer func() {
			ws.Unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})
}
