package models

import (
	"time"

	"github.com/google/uuid"
)

// Pomodoro is one completed focus session. Date holds the session's logical
// calendar day as YYYY-MM-DD; all aggregation buckets on it, never on the
// completion instant.
type Pomodoro struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TaskID      *uuid.UUID `gorm:"type:uuid;index" json:"task_id"`
	Date        string     `gorm:"not null;size:10;index" json:"date"`
	CompletedAt time.Time  `gorm:"not null" json:"completed_at"`
}
