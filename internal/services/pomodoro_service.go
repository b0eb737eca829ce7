package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/taskmasters/taskmasters-api/internal/clock"
	"github.com/taskmasters/taskmasters-api/internal/dto"
	"github.com/taskmasters/taskmasters-api/internal/models"
	"github.com/taskmasters/taskmasters-api/internal/scope"
	"gorm.io/gorm"
)

var (
	ErrTaskNotOwned   = errors.New("task does not belong to you")
	ErrInvalidGoal    = errors.New("goal must be between 1 and 20")
	ErrInvalidDate    = errors.New("dates must be in YYYY-MM-DD format")
	ErrEmptyDateRange = errors.New("start and end dates are required")
)

const dateLayout = "2006-01-02"

type PomodoroService struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewPomodoroService(db *gorm.DB, clk clock.Clock) *PomodoroService {
	return &PomodoroService{db: db, clock: clk}
}

// Record appends a focus session against the server's current calendar day.
func (s *PomodoroService) Record(userID uuid.UUID, taskID *uuid.UUID) (*dto.PomodoroWithTask, error) {
	if taskID != nil {
		var task models.Task
		err := s.db.Scopes(scope.ForUser(userID)).First(&task, "id = ?", *taskID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotOwned
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check task owner: %w", err)
		}
	}

	now := s.clock.Now()
	session := models.Pomodoro{
		ID:          uuid.New(),
		UserID:      userID,
		TaskID:      taskID,
		Date:        now.Format(dateLayout),
		CompletedAt: now,
	}

	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to record pomodoro: %w", err)
	}

	row := dto.PomodoroWithTask{
		ID:          session.ID,
		UserID:      session.UserID,
		TaskID:      session.TaskID,
		Date:        session.Date,
		CompletedAt: session.CompletedAt,
	}
	if taskID != nil {
		var task models.Task
		if err := s.db.First(&task, "id = ?", *taskID).Error; err == nil {
			row.TaskTitle = &task.Title
		}
	}
	return &row, nil
}

// TodaySessions returns today's sessions, newest first, with task titles.
func (s *PomodoroService) TodaySessions(userID uuid.UUID) ([]dto.PomodoroWithTask, error) {
	today := s.clock.Now().Format(dateLayout)

	var rows []dto.PomodoroWithTask
	err := s.db.Model(&models.Pomodoro{}).
		Select("pomodoros.*, tasks.title AS task_title").
		Joins("LEFT JOIN tasks ON tasks.id = pomodoros.task_id").
		Where("pomodoros.user_id = ? AND pomodoros.date = ?", userID, today).
		Order("pomodoros.completed_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list today's pomodoros: %w", err)
	}
	return rows, nil
}

func (s *PomodoroService) TodayStats(userID uuid.UUID) (*dto.TodayStats, error) {
	goal, err := s.goal(userID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Now().Format(dateLayout)
	var completed int64
	if err := s.db.Model(&models.Pomodoro{}).
		Where("user_id = ? AND date = ?", userID, today).
		Count(&completed).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's pomodoros: %w", err)
	}

	remaining := int64(goal) - completed
	if remaining < 0 {
		remaining = 0
	}
	percentage := 0
	if goal > 0 {
		percentage = int(math.Round(float64(completed) / float64(goal) * 100))
	}

	return &dto.TodayStats{
		Completed:  completed,
		Goal:       goal,
		Remaining:  remaining,
		Percentage: percentage,
	}, nil
}

// ByDateRange returns per-day counts for days with at least one session in
// [start, end], newest first. Both bounds are inclusive calendar dates.
func (s *PomodoroService) ByDateRange(userID uuid.UUID, start, end string) ([]dto.DayCount, error) {
	if start == "" || end == "" {
		return nil, ErrEmptyDateRange
	}
	if _, err := time.Parse(dateLayout, start); err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := time.Parse(dateLayout, end); err != nil {
		return nil, ErrInvalidDate
	}

	goal, err := s.goal(userID)
	if err != nil {
		return nil, err
	}

	var buckets []struct {
		Date  string
		Count int64
	}
	err = s.db.Model(&models.Pomodoro{}).
		Select("date, COUNT(*) AS count").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Group("date").
		Order("date DESC").
		Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate pomodoros by date: %w", err)
	}

	rows := make([]dto.DayCount, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, dto.DayCount{Date: b.Date, Count: b.Count, Goal: goal})
	}
	return rows, nil
}

// WeekStats aggregates the Sunday-through-Saturday week containing today.
func (s *PomodoroService) WeekStats(userID uuid.UUID) ([]dto.DayCount, error) {
	today := s.clock.Now()
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)
	return s.ByDateRange(userID, weekStart.Format(dateLayout), weekEnd.Format(dateLayout))
}

// UpdateGoal overwrites the user's daily goal in one scoped statement.
func (s *PomodoroService) UpdateGoal(userID uuid.UUID, goal int) (int, error) {
	if goal < 1 || goal > 20 {
		return 0, ErrInvalidGoal
	}

	result := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("pomodoro_goal", goal)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update goal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}

	return goal, nil
}

func (s *PomodoroService) Delete(pomodoroID, userID uuid.UUID) (bool, error) {
	result := s.db.Where("id = ? AND user_id = ?", pomodoroID, userID).Delete(&models.Pomodoro{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete pomodoro: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GeneralStats reports the all-time total, the rounded mean of per-day counts
// over the trailing week (only days with sessions enter the denominator), and
// the all-time best day.
func (s *PomodoroService) GeneralStats(userID uuid.UUID) (*dto.GeneralStats, error) {
	var total int64
	if err := s.db.Model(&models.Pomodoro{}).Scopes(scope.ForUser(userID)).
		Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count pomodoros: %w", err)
	}

	since := s.clock.Now().AddDate(0, 0, -7).Format(dateLayout)
	var window []struct {
		Date  string
		Count int64
	}
	err := s.db.Model(&models.Pomodoro{}).
		Select("date, COUNT(*) AS count").
		Where("user_id = ? AND date >= ?", userID, since).
		Group("date").
		Scan(&window).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate recent pomodoros: %w", err)
	}

	dailyAverage := 0
	if len(window) > 0 {
		var sum int64
		for _, day := range window {
			sum += day.Count
		}
		dailyAverage = int(math.Round(float64(sum) / float64(len(window))))
	}

	var best []struct {
		Date  string
		Count int64
	}
	err = s.db.Model(&models.Pomodoro{}).
		Select("date, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("date").
		Order("count DESC").
		Limit(1).
		Scan(&best).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find best day: %w", err)
	}

	stats := dto.GeneralStats{Total: total, DailyAverage: dailyAverage}
	if len(best) > 0 {
		stats.BestDay = &dto.BestDay{Date: best[0].Date, Count: best[0].Count}
	}
	return &stats, nil
}

func (s *PomodoroService) goal(userID uuid.UUID) (int, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to load user goal: %w", err)
	}
	return user.PomodoroGoal, nil
}
