package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iproutreach/quiz_platform/database"
	"github.com/iproutreach/quiz_platform/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildQuestionWorkbook creates one sheet per language, header row plus one
// row per entry: [question, option1..4, correct answer, category].
func buildQuestionWorkbook(t *testing.T, sheets map[string][][]string) *bytes.Buffer {
	t.Helper()
	workbook := excelize.NewFile()
	defer workbook.Close()

	header := []interface{}{"Question", "Option1", "Option2", "Option3", "Option4", "CorrectAns", "Category"}

	first := true
	for sheetName, rows := range sheets {
		if first {
			require.NoError(t, workbook.SetSheetName(workbook.GetSheetName(0), sheetName))
			first = false
		} else {
			_, err := workbook.NewSheet(sheetName)
			require.NoError(t, err)
		}

		require.NoError(t, workbook.SetSheetRow(sheetName, "A1", &header))
		for i, row := range rows {
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			require.NoError(t, err)
			require.NoError(t, workbook.SetSheetRow(sheetName, cell, &values))
		}
	}

	buf, err := workbook.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func uploadWorkbook(t *testing.T, app *fiber.App, token string, workbook *bytes.Buffer) (*http.Response, map[string]interface{}) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "questions.xlsx")
	require.NoError(t, err)
	_, err = io.Copy(part, workbook)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/questions/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

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

func TestUploadQuestionsMultiSheet(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	token := authToken(t, admin)

	workbook := buildQuestionWorkbook(t, map[string][][]string{
		"English": {
			{"What is H2O?", "Water", "Salt", "Sugar", "Sand", "Water", "science"},
			{"Largest planet?", "Earth", "Jupiter", "Mars", "Venus", "Jupiter", "science"},
		},
		"Hindi": {
			{"H2O kya hai?", "Paani", "Namak", "Cheeni", "Ret", "Paani", "science"},
		},
	})

	resp, body := uploadWorkbook(t, app, token, workbook)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["insertedCount"])
	assert.Equal(t, float64(0), body["duplicatesCount"])

	var hindi []models.Question
	require.NoError(t, database.DB.Where("language = ?", "hindi").Find(&hindi).Error)
	require.Len(t, hindi, 1)
	assert.Equal(t, "Paani", hindi[0].CorrectAnswer)
	assert.Equal(t, admin.ID, hindi[0].CreatedByID)
	assert.Equal(t, "medium", hindi[0].Difficulty)
}

func TestUploadQuestionsSkipsDuplicates(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	token := authToken(t, admin)

	sheet := map[string][][]string{
		"English": {
			{"What is H2O?", "Water", "Salt", "Sugar", "Sand", "Water", "science"},
		},
	}

	resp, _ := uploadWorkbook(t, app, token, buildQuestionWorkbook(t, sheet))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// identical re-upload is rejected outright
	resp, body := uploadWorkbook(t, app, token, buildQuestionWorkbook(t, sheet))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "All questions are duplicates. No new data to upload.", body["message"])

	var count int64
	require.NoError(t, database.DB.Model(&models.Question{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUploadQuestionsRejectsMissingColumns(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	token := authToken(t, admin)

	workbook := excelize.NewFile()
	require.NoError(t, workbook.SetSheetName(workbook.GetSheetName(0), "English"))
	header := []interface{}{"Question", "Option1", "Option2", "CorrectAns"}
	require.NoError(t, workbook.SetSheetRow("English", "A1", &header))
	row := []interface{}{"What is H2O?", "Water", "Salt", "Water"}
	require.NoError(t, workbook.SetSheetRow("English", "A2", &row))
	buf, err := workbook.WriteToBuffer()
	require.NoError(t, err)
	workbook.Close()

	resp, body := uploadWorkbook(t, app, token, buf)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "Missing required columns in sheet English")
}

func TestUploadQuestionsRejectsIncompleteRow(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	token := authToken(t, admin)

	workbook := buildQuestionWorkbook(t, map[string][][]string{
		"English": {
			{"What is H2O?", "Water", "Salt", "Sugar", "Sand", "Water", "science"},
			{"Broken row", "Water", "", "Sugar", "Sand", "Water", "science"},
		},
	})

	resp, body := uploadWorkbook(t, app, token, workbook)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Row 3 in sheet English is missing required fields", body["message"])

	var count int64
	require.NoError(t, database.DB.Model(&models.Question{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateQuestionRejectsAnswerOutsideOptions(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	token := authToken(t, admin)

	resp, body := doJSON(t, app, http.MethodPost, "/api/questions/create", token, map[string]interface{}{
		"question":      "What is H2O?",
		"options":       []string{"Water", "Salt", "Sugar", "Sand"},
		"correctAnswer": "Steam",
		"category":      "science",
		"language":      "English",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Correct answer must be one of the provided options", body["message"])
}

func TestGetQuestionsByTagsSpreadsAcrossCategories(t *testing.T) {
	app := setupTestApp(t)
	admin := createTestUser(t, "admin", "admin@example.com", "Pune", "")
	student := createTestUser(t, "student", "student@example.com", "Mumbai", "8th")

	seedQuestions(t, 6, "science", "english", admin.ID)
	seedQuestions(t, 6, "history", "english", admin.ID)

	payload := map[string]interface{}{
		"selectedTags":   []string{"science", "history"},
		"totalQuestions": 7,
	}
	req := httptest.NewRequest(http.MethodPost, "/api/questions/get-questions", bytes.NewReader(mustJSON(t, payload)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+authToken(t, student))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var questions []models.Question
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &questions))

	require.Len(t, questions, 7)
	perCategory := map[string]int{}
	for _, question := range questions {
		perCategory[question.Category]++
	}
	// remainder goes to the first tag
	assert.Equal(t, 4, perCategory["science"])
	assert.Equal(t, 3, perCategory["history"])
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
