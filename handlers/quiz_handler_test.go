package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/iproutreach/quiz_platform/database"
	"github.com/iproutreach/quiz_platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quizCreatePayload(totalMarks, passingMarks int, languages []string) map[string]interface{} {
	today := time.Now().UTC().Format("2006-01-02")
	nextWeek := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	return map[string]interface{}{
		"title":        "Science Olympiad",
		"description":  "Annual science quiz",
		"duration":     30,
		"totalMarks":   totalMarks,
		"passingMarks": passingMarks,
		"categories":   []string{"science"},
		"languages":    languages,
		"startDate":    today,
		"endDate":      nextWeek,
	}
}

func TestCreateQuizRejectsPassingAboveTotal(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	token := authToken(t, admin)

	resp, body := doJSON(t, app, http.MethodPost, "/api/quiz/create", token,
		quizCreatePayload(10, 15, []string{"english"}))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Passing marks cannot exceed total marks", body["message"])

	var count int64
	require.NoError(t, database.DB.Model(&models.Quiz{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateQuizRejectsPastStartDate(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	token := authToken(t, admin)

	payload := quizCreatePayload(10, 4, []string{"english"})
	payload["startDate"] = time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02")

	resp, body := doJSON(t, app, http.MethodPost, "/api/quiz/create", token, payload)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Start date must be in the future", body["message"])
}

func TestCreateQuizRequiresAdminRole(t *testing.T) {
	app := setupTestApp(t)
	student := createTestUser(t, "student", "student@example.com", "Pune", "8th")
	token := authToken(t, student)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/quiz/create", token,
		quizCreatePayload(10, 4, []string{"english"}))

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateQuizSkipsUnderPopulatedLanguages(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	token := authToken(t, admin)

	seedQuestions(t, 12, "science", "english", admin.ID)
	seedQuestions(t, 8, "science", "hindi", admin.ID)

	resp, body := doJSON(t, app, http.MethodPost, "/api/quiz/create", token,
		quizCreatePayload(10, 4, []string{"english", "hindi"}))

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	skipped, ok := body["skippedLanguages"].([]interface{})
	require.True(t, ok)
	require.Len(t, skipped, 1)
	assert.Equal(t, "hindi", skipped[0])

	created, ok := body["subQuizzes"].([]interface{})
	require.True(t, ok)
	assert.Len(t, created, 1)

	var subQuizzes []models.Quiz
	require.NoError(t, database.DB.Preload("Questions").
		Where("is_main_quiz = ?", false).Find(&subQuizzes).Error)
	require.Len(t, subQuizzes, 1)
	assert.Equal(t, "english", *subQuizzes[0].Language)
	assert.Len(t, subQuizzes[0].Questions, 10)

	// one analytics row for the main quiz, one per created sub-quiz
	var analyticsCount int64
	require.NoError(t, database.DB.Model(&models.QuizAnalytics{}).Count(&analyticsCount).Error)
	assert.Equal(t, int64(2), analyticsCount)
}

func submitPayload(quiz models.Quiz, answers map[string]string) map[string]interface{} {
	return map[string]interface{}{
		"quizId":    quiz.ID.String(),
		"answers":   answers,
		"startTime": time.Now().Add(-10 * time.Minute).Format(time.RFC3339),
		"endTime":   time.Now().Format(time.RFC3339),
	}
}

func TestSubmitQuizScoresAndRecordsAnalytics(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	student := createTestUser(t, "student", "student@example.com", "Mumbai", "8th")
	token := authToken(t, student)

	questions := seedQuestions(t, 4, "science", "english", admin.ID)
	quiz := seedQuizWithQuestions(t, questions, 20, 10, admin.ID)

	answers := map[string]string{
		questions[0].ID.String(): "A",
		questions[1].ID.String(): "A",
		questions[2].ID.String(): "A",
		// last question left unanswered
	}

	resp, body := doJSON(t, app, http.MethodPost, "/api/quiz/submit", token, submitPayload(quiz, answers))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result, ok := body["result"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(15), result["score"])
	assert.Equal(t, float64(3), result["correctAnswers"])
	assert.Equal(t, float64(0), result["incorrectAnswers"])
	assert.Equal(t, float64(1), result["skippedQuestions"])
	assert.Equal(t, float64(75), result["scorePercentage"])
	assert.Equal(t, true, result["isPassed"])
	assert.Equal(t, "Test Q User", result["userName"])

	var attempt models.QuizAttempt
	require.NoError(t, database.DB.Preload("Answers").
		Where("quiz_id = ? AND user_id = ?", quiz.ID, student.ID).First(&attempt).Error)
	assert.Equal(t, 15, attempt.Score)
	assert.True(t, attempt.IsPassed)
	assert.Len(t, attempt.Answers, 4)

	var analytics models.QuizAnalytics
	require.NoError(t, database.DB.Where("quiz_id = ?", quiz.ID).First(&analytics).Error)
	assert.Equal(t, 1, analytics.TotalParticipants)
	assert.InDelta(t, 15.0, analytics.AverageScore, 1e-9)
	assert.InDelta(t, 0.0, analytics.CompletionRatio, 1e-9)
	assert.Equal(t, 1, analytics.ParticipationByCity["Mumbai"])
	assert.Equal(t, 1, analytics.ParticipationByStd["8th"])

	var refreshed models.User
	require.NoError(t, database.DB.First(&refreshed, "id = ?", student.ID).Error)
	assert.Equal(t, 1, refreshed.TotalQuizzesTaken)
}

func TestSubmitQuizRejectsSecondAttempt(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	student := createTestUser(t, "student", "student@example.com", "Mumbai", "8th")
	token := authToken(t, student)

	questions := seedQuestions(t, 4, "science", "english", admin.ID)
	quiz := seedQuizWithQuestions(t, questions, 20, 10, admin.ID)

	answers := map[string]string{questions[0].ID.String(): "A"}

	resp, _ := doJSON(t, app, http.MethodPost, "/api/quiz/submit", token, submitPayload(quiz, answers))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/quiz/submit", token, submitPayload(quiz, answers))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You have already attempted this quiz", body["message"])

	var count int64
	require.NoError(t, database.DB.Model(&models.QuizAttempt{}).
		Where("quiz_id = ? AND user_id = ?", quiz.ID, student.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetQuizQuestionsStripsCorrectAnswers(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	student := createTestUser(t, "student", "student@example.com", "Mumbai", "8th")
	token := authToken(t, student)

	questions := seedQuestions(t, 3, "science", "english", admin.ID)
	quiz := seedQuizWithQuestions(t, questions, 15, 5, admin.ID)

	resp, body := doJSON(t, app, http.MethodGet, "/api/quiz/get-quiz-questions/"+quiz.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	quizData, ok := body["quiz"].(map[string]interface{})
	require.True(t, ok)
	returned, ok := quizData["questions"].([]interface{})
	require.True(t, ok)
	require.Len(t, returned, 3)
	for _, raw := range returned {
		question := raw.(map[string]interface{})
		_, present := question["correctAnswer"]
		assert.False(t, present, "correct answer must not be exposed to takers")
		assert.NotEmpty(t, question["options"])
	}
}

func TestDashboardRecomputeMatchesRunningAverage(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	adminToken := authToken(t, admin)

	questions := seedQuestions(t, 4, "science", "english", admin.ID)
	quiz := seedQuizWithQuestions(t, questions, 20, 10, admin.ID)

	// three takers: 4 correct, 3 correct + 1 skipped, 1 correct + 3 wrong
	answerSets := []map[string]string{
		{
			questions[0].ID.String(): "A",
			questions[1].ID.String(): "A",
			questions[2].ID.String(): "A",
			questions[3].ID.String(): "A",
		},
		{
			questions[0].ID.String(): "A",
			questions[1].ID.String(): "A",
			questions[2].ID.String(): "A",
		},
		{
			questions[0].ID.String(): "A",
			questions[1].ID.String(): "B",
			questions[2].ID.String(): "C",
			questions[3].ID.String(): "D",
		},
	}
	for i, answers := range answerSets {
		student := createTestUser(t, "student",
			fmt.Sprintf("student%d@example.com", i+1), "Mumbai", "8th")
		resp, _ := doJSON(t, app, http.MethodPost, "/api/quiz/submit",
			authToken(t, student), submitPayload(quiz, answers))
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	wantAverage := (20.0 + 15.0 + 5.0) / 3.0
	wantRatio := 2.0 / 3.0

	var analytics models.QuizAnalytics
	require.NoError(t, database.DB.Where("quiz_id = ?", quiz.ID).First(&analytics).Error)
	assert.Equal(t, 3, analytics.TotalParticipants)
	assert.InDelta(t, wantAverage, analytics.AverageScore, 1e-9)
	assert.InDelta(t, wantRatio, analytics.CompletionRatio, 1e-9)

	resp, body := doJSON(t, app, http.MethodGet, "/api/analytics/dashboard/"+quiz.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["totalParticipants"])
	assert.InDelta(t, wantAverage, data["averageScore"].(float64), 1e-9)
	assert.InDelta(t, wantRatio, data["completionRatio"].(float64), 1e-9)

	performers, ok := data["topPerformers"].([]interface{})
	require.True(t, ok)
	require.Len(t, performers, 3)
	first := performers[0].(map[string]interface{})
	assert.Equal(t, float64(20), first["score"])
}

func TestDeleteQuizCascades(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	student := createTestUser(t, "student", "student@example.com", "Mumbai", "8th")
	adminToken := authToken(t, admin)

	questions := seedQuestions(t, 4, "science", "english", admin.ID)
	quiz := seedQuizWithQuestions(t, questions, 20, 10, admin.ID)

	answers := map[string]string{questions[0].ID.String(): "A"}
	resp, _ := doJSON(t, app, http.MethodPost, "/api/quiz/submit",
		authToken(t, student), submitPayload(quiz, answers))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/quiz/delete/"+quiz.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, model := range []interface{}{
		&models.Quiz{}, &models.QuizAttempt{}, &models.AttemptAnswer{},
		&models.QuizResult{}, &models.QuizAnalytics{},
	} {
		var count int64
		require.NoError(t, database.DB.Model(model).Count(&count).Error)
		assert.Zero(t, count, "expected no rows left for %T", model)
	}

	// question bank survives quiz deletion
	var questionCount int64
	require.NoError(t, database.DB.Model(&models.Question{}).Count(&questionCount).Error)
	assert.Equal(t, int64(4), questionCount)
}
