package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

// TaskWithCategory is a task row joined with its category's name and color.
type TaskWithCategory struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	CategoryID    *uuid.UUID `json:"category_id"`
	UserID        uuid.UUID  `json:"user_id"`
	IsCompleted   bool       `json:"is_completed"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	CategoryName  *string    `json:"category_name"`
	CategoryColor *string    `json:"category_color"`
}

type TaskStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

type TaskListResponse struct {
	Tasks []TaskWithCategory `json:"tasks"`
	Stats TaskStats          `json:"stats"`
}
