package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizAttempt records a user's single pass through a quiz. The composite
// unique index is the authoritative guard against double submission; the
// handler's pre-check is only a fast path.
type QuizAttempt struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuizID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_quiz_user" json:"quiz"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_quiz_user" json:"user"`
	Score    int       `gorm:"not null" json:"score"`
	IsPassed bool      `gorm:"not null" json:"isPassed"`

	StartTime time.Time `gorm:"not null" json:"startTime"`
	EndTime   time.Time `gorm:"not null" json:"endTime"`

	Answers []AttemptAnswer `gorm:"foreignkey:QuizAttemptID" json:"answers,omitempty"`

	Quiz *Quiz `gorm:"foreignkey:QuizID" json:"-"`
	User *User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
