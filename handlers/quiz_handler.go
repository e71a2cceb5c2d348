package handlers

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/iproutreach/quiz_platform/database"
	"github.com/iproutreach/quiz_platform/models"
	"github.com/iproutreach/quiz_platform/services"
	ws "github.com/iproutreach/quiz_platform/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Duration     int      `json:"duration" validate:"required,gt=0"`
	TotalMarks   int      `json:"totalMarks" validate:"required,gt=0"`
	PassingMarks int      `json:"passingMarks" validate:"required,gt=0"`
	Categories   []string `json:"categories" validate:"required,min=1"`
	Languages    []string `json:"languages" validate:"required,min=1"`
	StartDate    string   `json:"startDate" validate:"required"`
	EndDate      string   `json:"endDate" validate:"required"`
	ImageLink    string   `json:"imageLink"`
}

// parseQuizWindow normalizes the schedule window to day granularity: the
// window opens at the start of startDate and closes at the end of endDate.
func parseQuizWindow(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("Invalid date format")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("Invalid date format")
	}

	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if start.Before(today) {
		return time.Time{}, time.Time{}, errors.New("Start date must be in the future")
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.New("End date must be after start date")
	}
	return start, end, nil
}

// CreateQuiz creates a main quiz plus one sub-quiz per requested language.
// Languages without enough questions are skipped; unlike the pre-check
// failures this is not an error, but the skipped list is reported so the
// admin knows which variants are missing.
func CreateQuiz(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	creatorID, _ := uuid.Parse(claims["user_id"].(string))

	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if req.PassingMarks > req.TotalMarks {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Passing marks cannot exceed total marks"})
	}

	start, end, err := parseQuizWindow(req.StartDate, req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	mainQuiz := models.Quiz{
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
		TotalMarks:   req.TotalMarks,
		PassingMarks: req.PassingMarks,
		StartDate:    start,
		EndDate:      end,
		ImageLink:    req.ImageLink,
		Categories:   req.Categories,
		Languages:    req.Languages,
		CreatedByID:  creatorID,
		IsMainQuiz:   true,
	}

	var outcome *services.SubQuizOutcome
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&mainQuiz).Error; err != nil {
			return err
		}
		outcome, err = services.CreateSubQuizzes(tx, &mainQuiz)
		if err != nil {
			return err
		}
		return tx.Create(&models.QuizAnalytics{QuizID: mainQuiz.ID}).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create quiz"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":          true,
		"message":          fmt.Sprintf("Quiz created successfully with %d language versions", len(outcome.CreatedIDs)),
		"quiz":             mainQuiz,
		"subQuizzes":       outcome.CreatedIDs,
		"skippedLanguages": outcome.SkippedLanguages,
	})
}

func UpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Params("id")

	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if req.PassingMarks > req.TotalMarks {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Passing marks cannot exceed total marks"})
	}

	start, end, err := parseQuizWindow(req.StartDate, req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Quiz not found"})
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.Duration = req.Duration
	quiz.TotalMarks = req.TotalMarks
	quiz.PassingMarks = req.PassingMarks
	quiz.StartDate = start
	quiz.EndDate = end
	quiz.ImageLink = req.ImageLink
	quiz.Categories = req.Categories
	quiz.Languages = req.Languages

	if err := database.DB.Save(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update quiz"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Quiz updated successfully",
		"quiz":    quiz,
	})
}

// DeleteQuiz removes a quiz and everything hanging off it. For a main quiz
// the cascade covers every sub-quiz with its attempts, answers, results and
// analytics.
func DeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Params("id")

	var quiz models.Quiz
	if err := database.DB.Preload("SubQuizzes").First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Quiz not found"})
	}

	quizIDs := []uuid.UUID{quiz.ID}
	for _, sub := range quiz.SubQuizzes {
		quizIDs = append(quizIDs, sub.ID)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var attemptIDs []uuid.UUID
		if err := tx.Model(&models.QuizAttempt{}).Where("quiz_id IN ?", quizIDs).Pluck("id", &attemptIDs).Error; err != nil {
			return err
		}
		if len(attemptIDs) > 0 {
			if err := tx.Where("quiz_attempt_id IN ?", attemptIDs).Delete(&models.AttemptAnswer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&models.QuizAttempt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&models.QuizResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&models.QuizAnalytics{}).Error; err != nil {
			return err
		}

		for _, sub := range quiz.SubQuizzes {
			if err := tx.Model(sub).Association("Questions").Clear(); err != nil {
				return err
			}
		}
		if err := tx.Model(&quiz).Association("Questions").Clear(); err != nil {
			return err
		}

		if err := tx.Where("parent_quiz_id = ?", quiz.ID).Delete(&models.Quiz{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete quiz"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Quiz and all related data deleted successfully",
		"quiz":    quiz,
	})
}

func GetAllQuizzes(c *fiber.Ctx) error {
	var quizzes []models.Quiz
	err := database.DB.
		Preload("CreatedBy").
		Preload("SubQuizzes").
		Where("is_active = ? AND is_main_quiz = ?", true, true).
		Order("created_at desc").
		Find(&quizzes).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch quizzes"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"quizzes": quizzes,
	})
}

func GetSubQuizzes(c *fiber.Ctx) error {
	quizID := c.Params("quizId")

	var quiz models.Quiz
	if err := database.DB.Preload("SubQuizzes").First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Quiz not found"})
	}

	if !quiz.IsMainQuiz {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "This is not a main quiz"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"subQuizzes": quiz.SubQuizzes,
	})
}

// GetQuizQuestions returns the question list with correct answers stripped.
// A main quiz cannot be taken directly: the response carries its sub-quiz
// list so the caller can pick a language version.
func GetQuizQuestions(c *fiber.Ctx) error {
	quizID := c.Params("id")

	var quiz models.Quiz
	if err := database.DB.Preload("Questions").Preload("SubQuizzes").First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Quiz not found"})
	}

	if quiz.IsMainQuiz && len(quiz.SubQuizzes) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":    false,
			"message":    "This is a main quiz. Please select a language version to start.",
			"isMainQuiz": true,
			"subQuizzes": quiz.SubQuizzes,
		})
	}

	if len(quiz.Questions) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "No questions found for this quiz"})
	}

	for _, question := range quiz.Questions {
		question.CorrectAnswer = ""
	}

	return c.JSON(fiber.Map{
		"success": true,
		"quiz":    quiz,
	})
}

type SubmitQuizRequest struct {
	QuizID    string            `json:"quizId" validate:"required"`
	Answers   map[string]string `json:"answers" validate:"required"`
	StartTime time.Time         `json:"startTime" validate:"required"`
	EndTime   time.Time         `json:"endTime" validate:"required"`
}

// SubmitQuiz scores a submission and persists attempt, result and
// analytics in one transaction. The unique (quiz, user) index is the
// authoritative duplicate guard; the initial lookup only gives a friendly
// fast path. The analytics row is updated under a row lock so concurrent
// submissions cannot lose each other's updates.
func SubmitQuiz(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Quiz ID and answers are required"})
	}

	quizID, err := uuid.Parse(req.QuizID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid quiz ID"})
	}

	var existingAttempt models.QuizAttempt
	if err := database.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&existingAttempt).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "You have already attempted this quiz"})
	}

	var quiz models.Quiz
	if err := database.DB.Preload("Questions").First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Quiz not found"})
	}
	if len(quiz.Questions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "No questions found for this quiz"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}

	breakdown, err := services.ScoreQuiz(quiz.Questions, req.Answers, quiz.TotalMarks, quiz.PassingMarks)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "No questions found for this quiz"})
	}

	timeTaken := int(math.Round(req.EndTime.Sub(req.StartTime).Seconds()))

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		attempt := models.QuizAttempt{
			QuizID:    quizID,
			UserID:    userID,
			Score:     breakdown.Score,
			IsPassed:  breakdown.IsPassed,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		}
		for _, detail := range breakdown.Details {
			attempt.Answers = append(attempt.Answers, models.AttemptAnswer{
				QuestionID:     detail.QuestionID,
				SelectedAnswer: detail.SelectedAnswer,
				IsCorrect:      detail.IsCorrect,
			})
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		result := models.QuizResult{
			UserID:           userID,
			QuizID:           quizID,
			Score:            breakdown.Score,
			TotalQuestions:   breakdown.TotalQuestions,
			CorrectAnswers:   breakdown.CorrectAnswers,
			IncorrectAnswers: breakdown.IncorrectAnswers,
			SkippedQuestions: breakdown.SkippedQuestions,
			Completed:        breakdown.SkippedQuestions == 0,
			TimeTaken:        timeTaken,
		}
		if err := tx.Create(&result).Error; err != nil {
			return err
		}

		err := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("total_quizzes_taken", gorm.Expr("total_quizzes_taken + 1")).Error
		if err != nil {
			return err
		}

		return services.RecordSubmission(tx, quizID, &user, breakdown)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "You have already attempted this quiz"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to submit quiz"})
	}

	ws.PublishSubmission(ws.SubmissionEvent{
		QuizID:    quizID,
		QuizTitle: quiz.Title,
		UserName:  user.FullName(),
		City:      user.City,
		Standard:  user.Standard,
		Score:     breakdown.Score,
		IsPassed:  breakdown.IsPassed,
		TimeTaken: timeTaken,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Quiz submitted successfully",
		"result": fiber.Map{
			"score":              breakdown.Score,
			"totalMarks":         quiz.TotalMarks,
			"passingMarks":       quiz.PassingMarks,
			"correctAnswers":     breakdown.CorrectAnswers,
			"incorrectAnswers":   breakdown.IncorrectAnswers,
			"skippedQuestions":   breakdown.SkippedQuestions,
			"isPassed":           breakdown.IsPassed,
			"timeTaken":          timeTaken,
			"correctAnswersList": breakdown.CorrectList,
			"userName":           user.FullName(),
			"quizName":           quiz.Title,
			"scorePercentage":    breakdown.Percentage,
		},
	})
}
