package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttemptAnswer keeps the per-question audit trail of an attempt. A skipped
// question is stored with an empty SelectedAnswer.
type AttemptAnswer struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuizAttemptID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	QuestionID     uuid.UUID `gorm:"type:uuid;not null" json:"question"`
	SelectedAnswer string    `gorm:"type:text" json:"selectedAnswer"`
	IsCorrect      bool      `gorm:"not null" json:"isCorrect"`
}

func (a *AttemptAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
