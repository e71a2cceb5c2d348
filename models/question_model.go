package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Question      string    `gorm:"type:text;not null" json:"question"`
	Options       []string  `gorm:"serializer:json;not null" json:"options"`
	CorrectAnswer string    `gorm:"type:text;not null" json:"correctAnswer,omitempty"`
	Category      string    `gorm:"size:100;not null;index:idx_questions_filter" json:"category"`
	Language      string    `gorm:"size:50;not null;index:idx_questions_filter" json:"language"`
	Difficulty    string    `gorm:"size:20;not null;default:'medium';index:idx_questions_filter" json:"difficulty"`
	CreatedByID   uuid.UUID `gorm:"type:uuid" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
