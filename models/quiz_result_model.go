package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizResult is the persisted summary of an attempt, used for history
// listing and as the source data for analytics recomputation.
type QuizResult struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	QuizID           uuid.UUID `gorm:"type:uuid;not null;index" json:"quizId"`
	Score            int       `gorm:"not null;default:0" json:"score"`
	TotalQuestions   int       `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers   int       `gorm:"not null;default:0" json:"correctAnswers"`
	IncorrectAnswers int       `gorm:"not null;default:0" json:"incorrectAnswers"`
	SkippedQuestions int       `gorm:"not null;default:0" json:"skippedQuestions"`
	Completed        bool      `gorm:"not null;default:false" json:"completed"`
	SubmittedAt      time.Time `json:"submittedAt"`
	TimeTaken        int       `gorm:"not null" json:"timeTaken"`

	User *User `gorm:"foreignkey:UserID" json:"user,omitempty"`
	Quiz *Quiz `gorm:"foreignkey:QuizID" json:"quiz,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *QuizResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
	return nil
}
