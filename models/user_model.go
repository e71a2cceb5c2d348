package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	MiddleName   string    `gorm:"size:100" json:"middle_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	Email        string    `gorm:"size:255;not null;unique" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	MobileNumber string    `gorm:"size:15;not null" json:"mobile_number"`
	DateOfBirth  time.Time `gorm:"not null" json:"date_of_birth"`
	Standard     string    `gorm:"size:20;not null" json:"standard"`
	SchoolName   string    `gorm:"size:255;not null" json:"school_name"`
	City         string    `gorm:"size:100;not null" json:"city"`
	Role         string    `gorm:"size:20;not null;default:'student'" json:"role"`

	TotalQuizzesTaken int `gorm:"default:0" json:"total_quizzes_taken"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) FullName() string {
	name := u.FirstName
	if u.MiddleName != "" {
		name += " " + u.MiddleName
	}
	return name + " " + u.LastName
}
