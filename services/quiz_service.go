package services

import (
	"fmt"
	"log"

	"github.com/iproutreach/quiz_platform/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubQuizOutcome struct {
	CreatedIDs       []uuid.UUID
	SkippedLanguages []string
}

// CreateSubQuizzes builds one language variant per requested language. A
// language with fewer matching questions than totalMarks is skipped and
// reported back instead of producing an under-sized quiz. Every created
// sub-quiz gets a zero-valued analytics row.
func CreateSubQuizzes(tx *gorm.DB, mainQuiz *models.Quiz) (*SubQuizOutcome, error) {
	outcome := &SubQuizOutcome{}

	for _, language := range mainQuiz.Languages {
		var questions []*models.Question
		err := tx.
			Where("category IN ? AND language = ?", mainQuiz.Categories, language).
			Order("created_at asc").
			Limit(mainQuiz.TotalMarks).
			Find(&questions).Error
		if err != nil {
			return nil, err
		}

		if len(questions) < mainQuiz.TotalMarks {
			log.Printf("Skipping sub-quiz for language %q: found %d questions, need %d", language, len(questions), mainQuiz.TotalMarks)
			outcome.SkippedLanguages = append(outcome.SkippedLanguages, language)
			continue
		}

		lang := language
		subQuiz := models.Quiz{
			Title:        fmt.Sprintf("%s (%s)", mainQuiz.Title, language),
			Description:  fmt.Sprintf("%s - %s version", mainQuiz.Description, language),
			Duration:     mainQuiz.Duration,
			TotalMarks:   mainQuiz.TotalMarks,
			PassingMarks: mainQuiz.PassingMarks,
			StartDate:    mainQuiz.StartDate,
			EndDate:      mainQuiz.EndDate,
			ImageLink:    mainQuiz.ImageLink,
			Categories:   mainQuiz.Categories,
			Languages:    []string{language},
			Questions:    questions,
			CreatedByID:  mainQuiz.CreatedByID,
			ParentQuizID: &mainQuiz.ID,
			Language:     &lang,
			IsMainQuiz:   false,
		}
		if err := tx.Create(&subQuiz).Error; err != nil {
			return nil, err
		}

		if err := tx.Create(&models.QuizAnalytics{QuizID: subQuiz.ID}).Error; err != nil {
			return nil, err
		}

		outcome.CreatedIDs = append(outcome.CreatedIDs, subQuiz.ID)
	}

	return outcome, nil
}
