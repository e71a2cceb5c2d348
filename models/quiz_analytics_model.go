package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizAnalytics is the per-quiz running aggregate. It is updated
// incrementally by the submission flow (under a row lock) and replaced
// wholesale by the dashboard recompute.
type QuizAnalytics struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	QuizID               uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"quizId"`
	TotalParticipants    int            `gorm:"default:0" json:"totalParticipants"`
	CompletionRatio      float64        `gorm:"default:0" json:"completionRatio"`
	AverageScore         float64        `gorm:"default:0" json:"averageScore"`
	ParticipationByStd   map[string]int `gorm:"serializer:json" json:"participationByStd"`
	ParticipationByCity  map[string]int `gorm:"serializer:json" json:"participationByCity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *QuizAnalytics) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.ParticipationByStd == nil {
		a.ParticipationByStd = map[string]int{}
	}
	if a.ParticipationByCity == nil {
		a.ParticipationByCity = map[string]int{}
	}
	return nil
}
