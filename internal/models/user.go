package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultPomodoroGoal = 6

type User struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password          string    `gorm:"not null" json:"-"`
	Name              string    `gorm:"not null;size:100" json:"name"`
	IsVerified        bool      `gorm:"default:false" json:"is_verified"`
	VerificationToken *string   `gorm:"size:36;index" json:"-"`
	PomodoroGoal      int       `gorm:"not null;default:6" json:"pomodoro_goal"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
