package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quiz is either a main quiz (a container for per-language sub-quizzes,
// never carrying questions itself) or a language sub-quiz holding a fixed
// question list sized to TotalMarks.
type Quiz struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Duration     int       `gorm:"not null" json:"duration"`
	TotalMarks   int       `gorm:"not null" json:"totalMarks"`
	PassingMarks int       `gorm:"not null" json:"passingMarks"`
	StartDate    time.Time `gorm:"not null" json:"startDate"`
	EndDate      time.Time `gorm:"not null" json:"endDate"`
	ImageLink    string    `gorm:"type:text" json:"imageLink"`
	Categories   []string  `gorm:"serializer:json;not null" json:"categories"`
	Languages    []string  `gorm:"serializer:json;not null" json:"languages"`

	Questions []*Question `gorm:"many2many:quiz_questions;" json:"questions,omitempty"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedBy   *User     `gorm:"foreignkey:CreatedByID" json:"creator,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`

	ParentQuizID *uuid.UUID `gorm:"type:uuid;index" json:"parentQuiz,omitempty"`
	SubQuizzes   []*Quiz    `gorm:"foreignkey:ParentQuizID" json:"subQuizzes,omitempty"`
	Language     *string    `gorm:"size:50" json:"language,omitempty"`
	IsMainQuiz   bool       `gorm:"default:false;index" json:"isMainQuiz"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
