package handlers

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/iproutreach/quiz_platform/database"
	"github.com/iproutreach/quiz_platform/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var requiredUploadColumns = []string{"Question", "Option1", "Option2", "Option3", "Option4", "CorrectAns", "Category"}

type CreateQuestionRequest struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,len=4,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	Language      string   `json:"language" validate:"required"`
	Difficulty    string   `json:"difficulty"`
}

// UploadQuestions ingests a question-bank workbook: one sheet per language
// (the sheet name, lowercased, becomes the language tag), one question per
// row. Duplicates against the existing bank are skipped and reported back.
func UploadQuestions(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	creatorID, _ := uuid.Parse(claims["user_id"].(string))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "No file uploaded"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Failed to open uploaded file"})
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Failed to read Excel file"})
	}
	defer workbook.Close()

	sheetNames := workbook.GetSheetList()
	if len(sheetNames) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Excel file has no sheets"})
	}

	var existing []models.Question
	if err := database.DB.Find(&existing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Database error"})
	}
	seen := make(map[string]bool, len(existing))
	for _, q := range existing {
		seen[duplicateKey(q.Question, q.CorrectAnswer, q.Category, q.Language)] = true
	}

	var newQuestions []models.Question
	var duplicates []string

	for _, sheetName := range sheetNames {
		rows, err := workbook.GetRows(sheetName)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": fmt.Sprintf("Failed to read sheet %s", sheetName)})
		}
		if len(rows) < 2 {
			continue
		}

		columns := map[string]int{}
		for i, header := range rows[0] {
			columns[strings.TrimSpace(header)] = i
		}
		var missing []string
		for _, col := range requiredUploadColumns {
			if _, ok := columns[col]; !ok {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": fmt.Sprintf("Missing required columns in sheet %s: %s", sheetName, strings.Join(missing, ", ")),
			})
		}

		language := strings.ToLower(sheetName)
		for rowIdx, row := range rows[1:] {
			cell := func(name string) string {
				idx := columns[name]
				if idx >= len(row) {
					return ""
				}
				return strings.TrimSpace(row[idx])
			}

			question := models.Question{
				Question:      cell("Question"),
				Options:       []string{cell("Option1"), cell("Option2"), cell("Option3"), cell("Option4")},
				CorrectAnswer: cell("CorrectAns"),
				Category:      cell("Category"),
				Language:      language,
				Difficulty:    cell("Difficulty"),
				CreatedByID:   creatorID,
			}
			if question.Difficulty == "" {
				question.Difficulty = "medium"
			}

			if question.Question == "" || question.CorrectAnswer == "" || question.Category == "" ||
				question.Options[0] == "" || question.Options[1] == "" || question.Options[2] == "" || question.Options[3] == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false,
					"message": fmt.Sprintf("Row %d in sheet %s is missing required fields", rowIdx+2, sheetName),
				})
			}

			key := duplicateKey(question.Question, question.CorrectAnswer, question.Category, question.Language)
			if seen[key] {
				duplicates = append(duplicates, question.Question)
				continue
			}
			seen[key] = true
			newQuestions = append(newQuestions, question)
		}
	}

	if len(newQuestions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":    false,
			"message":    "All questions are duplicates. No new data to upload.",
			"duplicates": duplicates,
		})
	}

	if err := database.DB.Create(&newQuestions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to store questions"})
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"message":         "Excel data uploaded and stored successfully",
		"insertedCount":   len(newQuestions),
		"duplicatesCount": len(duplicates),
		"duplicates":      duplicates,
	})
}

func duplicateKey(question, correctAnswer, category, language string) string {
	return question + "\x00" + correctAnswer + "\x00" + category + "\x00" + language
}

func CreateQuestion(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	creatorID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	correctIsOption := false
	for _, option := range req.Options {
		if option == req.CorrectAnswer {
			correctIsOption = true
			break
		}
	}
	if !correctIsOption {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Correct answer must be one of the provided options"})
	}

	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	question := models.Question{
		Question:      req.Question,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Category:      req.Category,
		Language:      strings.ToLower(req.Language),
		Difficulty:    req.Difficulty,
		CreatedByID:   creatorID,
	}

	if err := database.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create question"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Question created successfully",
		"question": question,
	})
}

func FindAllCategories(c *fiber.Ctx) error {
	var categories []string
	if err := database.DB.Model(&models.Question{}).Distinct("category").Pluck("category", &categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch categories"})
	}
	return c.JSON(fiber.Map{"success": true, "categories": categories})
}

func GetAllLanguages(c *fiber.Ctx) error {
	var languages []string
	if err := database.DB.Model(&models.Question{}).Distinct("language").Pluck("language", &languages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch languages"})
	}
	return c.JSON(fiber.Map{"success": true, "languages": languages})
}

func GetCategoriesByDifficulty(c *fiber.Ctx) error {
	var difficulties []string
	if err := database.DB.Model(&models.Question{}).Distinct("difficulty").Pluck("difficulty", &difficulties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch difficulties"})
	}

	categoriesByDifficulty := make(map[string][]string, len(difficulties))
	for _, difficulty := range difficulties {
		var categories []string
		err := database.DB.Model(&models.Question{}).
			Where("difficulty = ?", difficulty).
			Distinct("category").
			Pluck("category", &categories).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch categories by difficulty"})
		}
		categoriesByDifficulty[difficulty] = categories
	}

	return c.JSON(fiber.Map{"success": true, "categoriesByDifficulty": categoriesByDifficulty})
}

type GetQuestionsRequest struct {
	SelectedTags   []string `json:"selectedTags" validate:"required,min=1"`
	TotalQuestions int      `json:"totalQuestions" validate:"required,gt=0"`
}

// GetQuestionsByTags spreads totalQuestions evenly across the selected
// categories, spilling the remainder one per tag, then shuffles the result.
func GetQuestionsByTags(c *fiber.Ctx) error {
	var req GetQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Selected tags are required"})
	}

	questionsPerTag := req.TotalQuestions / len(req.SelectedTags)
	remainingQuestions := req.TotalQuestions % len(req.SelectedTags)

	var allQuestions []models.Question
	for _, tag := range req.SelectedTags {
		limit := questionsPerTag
		if remainingQuestions > 0 {
			limit++
			remainingQuestions--
		}

		var tagQuestions []models.Question
		err := database.DB.Where("category = ?", tag).
			Order("created_at asc").
			Limit(limit).
			Find(&tagQuestions).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Error fetching questions"})
		}
		allQuestions = append(allQuestions, tagQuestions...)
	}

	rand.Shuffle(len(allQuestions), func(i, j int) {
		allQuestions[i], allQuestions[j] = allQuestions[j], allQuestions[i]
	})

	return c.JSON(allQuestions)
}

func DeleteAllQuestions(c *fiber.Ctx) error {
	if err := database.DB.Where("1 = 1").Delete(&models.Question{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete questions"})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "All questions have been deleted successfully",
	})
}
