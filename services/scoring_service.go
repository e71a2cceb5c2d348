package services

import (
	"errors"
	"math"

	"github.com/iproutreach/quiz_platform/models"
	"github.com/google/uuid"
)

var ErrNoQuestions = errors.New("quiz has no questions")

type AnswerDetail struct {
	QuestionID     uuid.UUID
	SelectedAnswer string
	IsCorrect      bool
}

type ScoreBreakdown struct {
	TotalQuestions   int
	CorrectAnswers   int
	IncorrectAnswers int
	SkippedQuestions int
	Score            int
	Percentage       int
	IsPassed         bool
	Details          []AnswerDetail
	CorrectList      map[string]string
}

// ScoreQuiz compares the submitted answer map against a quiz's question
// list. An absent or empty answer counts as skipped. Score is proportional
// to the correct count, rounded to the nearest mark; it never exceeds
// totalMarks.
func ScoreQuiz(questions []*models.Question, answers map[string]string, totalMarks, passingMarks int) (*ScoreBreakdown, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	result := &ScoreBreakdown{
		TotalQuestions: len(questions),
		Details:        make([]AnswerDetail, 0, len(questions)),
		CorrectList:    make(map[string]string, len(questions)),
	}

	for _, question := range questions {
		submitted := answers[question.ID.String()]
		isCorrect := submitted != "" && submitted == question.CorrectAnswer
		result.CorrectList[question.ID.String()] = question.CorrectAnswer

		result.Details = append(result.Details, AnswerDetail{
			QuestionID:     question.ID,
			SelectedAnswer: submitted,
			IsCorrect:      isCorrect,
		})

		switch {
		case submitted == "":
			result.SkippedQuestions++
		case isCorrect:
			result.CorrectAnswers++
		default:
			result.IncorrectAnswers++
		}
	}

	result.Score = int(math.Round(float64(result.CorrectAnswers) / float64(result.TotalQuestions) * float64(totalMarks)))
	result.Percentage = int(math.Round(float64(result.Score) / float64(totalMarks) * 100))
	result.IsPassed = result.Score >= passingMarks

	return result, nil
}
