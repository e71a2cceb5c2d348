package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iproutreach/quiz_platform/database"
	"github.com/iproutreach/quiz_platform/models"
	"github.com/iproutreach/quiz_platform/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "testsecret"

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Quiz{},
		&models.QuizAttempt{},
		&models.AttemptAnswer{},
		&models.QuizResult{},
		&models.QuizAnalytics{},
	)
	require.NoError(t, err)

	database.DB = db

	app := fiber.New()
	routes.AuthRoutes(app)
	routes.UserRoutes(app)
	routes.QuestionRoutes(app)
	routes.QuizRoutes(app)
	routes.AnalyticsRoutes(app)

	return app
}

func createTestUser(t *testing.T, role, email, city, standard string) models.User {
	t.Helper()
	user := models.User{
		FirstName:    "Test",
		MiddleName:   "Q",
		LastName:     "User",
		Email:        email,
		Password:     "$2a$10$vQ39geh0dO8tb9jePA7X0uXYmtxTnVpUCbmLX6/OKE56vDko5rQTO", // "password"
		MobileNumber: "9876543210",
		DateOfBirth:  time.Date(2008, 4, 12, 0, 0, 0, 0, time.UTC),
		Standard:     standard,
		SchoolName:   "Central School",
		City:         city,
		Role:         role,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func authToken(t *testing.T, user models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"name":    user.FirstName + " " + user.LastName,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &decoded))
	}
	return resp, decoded
}

func seedQuestions(t *testing.T, count int, category, language string, creatorID uuid.UUID) []models.Question {
	t.Helper()
	questions := make([]models.Question, 0, count)
	for i := 0; i < count; i++ {
		question := models.Question{
			Question:      fmt.Sprintf("%s %s question %d", language, category, i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
			Category:      category,
			Language:      language,
			Difficulty:    "medium",
			CreatedByID:   creatorID,
		}
		require.NoError(t, database.DB.Create(&question).Error)
		questions = append(questions, question)
	}
	return questions
}

// seedQuizWithQuestions builds a taker-ready sub-quiz directly, bypassing
// the creation endpoint so question count and marks can differ.
func seedQuizWithQuestions(t *testing.T, questions []models.Question, totalMarks, passingMarks int, creatorID uuid.UUID) models.Quiz {
	t.Helper()
	refs := make([]*models.Question, len(questions))
	for i := range questions {
		refs[i] = &questions[i]
	}
	lang := "english"
	quiz := models.Quiz{
		Title:        "General Awareness Quiz",
		Description:  "Seeded quiz",
		Duration:     30,
		TotalMarks:   totalMarks,
		PassingMarks: passingMarks,
		StartDate:    time.Now().Add(-time.Hour),
		EndDate:      time.Now().Add(24 * time.Hour),
		Categories:   []string{"general"},
		Languages:    []string{lang},
		Questions:    refs,
		CreatedByID:  creatorID,
		Language:     &lang,
	}
	require.NoError(t, database.DB.Create(&quiz).Error)
	return quiz
}
