package dto

import (
	"time"

	"github.com/google/uuid"
)

type RecordPomodoroRequest struct {
	TaskID *uuid.UUID `json:"task_id"`
}

type UpdateGoalRequest struct {
	Goal int `json:"goal"`
}

// PomodoroWithTask is a session row joined with the task title, if any.
type PomodoroWithTask struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	TaskID      *uuid.UUID `json:"task_id"`
	Date        string     `json:"date"`
	CompletedAt time.Time  `json:"completed_at"`
	TaskTitle   *string    `json:"task_title"`
}

type TodayStats struct {
	Completed  int64 `json:"completed"`
	Goal       int   `json:"goal"`
	Remaining  int64 `json:"remaining"`
	Percentage int   `json:"percentage"`
}

type TodayResponse struct {
	Pomodoros []PomodoroWithTask `json:"pomodoros"`
	Stats     TodayStats         `json:"stats"`
}

type RecordPomodoroResponse struct {
	Pomodoro   PomodoroWithTask `json:"pomodoro"`
	TodayStats TodayStats       `json:"today_stats"`
}

// DayCount is one per-day aggregation row for a date range.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
	Goal  int    `json:"goal"`
}

type BestDay struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type GeneralStats struct {
	Total        int64    `json:"total"`
	DailyAverage int      `json:"daily_average"`
	BestDay      *BestDay `json:"best_day"`
}

type GeneralStatsResponse struct {
	General GeneralStats `json:"general"`
	Today   TodayStats   `json:"today"`
}

type GoalResponse struct {
	Goal       int        `json:"goal"`
	TodayStats TodayStats `json:"today_stats"`
}

type DeletePomodoroResponse struct {
	Message    string     `json:"message"`
	TodayStats TodayStats `json:"today_stats"`
}
