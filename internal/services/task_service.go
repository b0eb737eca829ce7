package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/taskmasters/taskmasters-api/internal/clock"
	"github.com/taskmasters/taskmasters-api/internal/dto"
	"github.com/taskmasters/taskmasters-api/internal/models"
	"github.com/taskmasters/taskmasters-api/internal/scope"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTitleRequired      = errors.New("task title is required")
	ErrTitleTooLong       = errors.New("task title must be at most 255 characters")
	ErrDescriptionTooLong = errors.New("task description must be at most 1000 characters")
	ErrCategoryNotOwned   = errors.New("category does not belong to you")
)

type TaskService struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewTaskService(db *gorm.DB, clk clock.Clock) *TaskService {
	return &TaskService{db: db, clock: clk}
}

func (s *TaskService) Create(userID uuid.UUID, req dto.CreateTaskRequest) (*models.Task, error) {
	if err := s.validate(userID, req.Title, req.Description, req.CategoryID); err != nil {
		return nil, err
	}

	task := models.Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		CategoryID:  req.CategoryID,
		UserID:      userID,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return &task, nil
}

// List returns the user's tasks with joined category info, newest first,
// together with the aggregate counters.
func (s *TaskService) List(userID uuid.UUID) (*dto.TaskListResponse, error) {
	var rows []dto.TaskWithCategory
	err := s.db.Model(&models.Task{}).
		Select("tasks.*, categories.name AS category_name, categories.color AS category_color").
		Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
		Where("tasks.user_id = ?", userID).
		Order("tasks.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	stats, err := s.Stats(userID)
	if err != nil {
		return nil, err
	}

	return &dto.TaskListResponse{Tasks: rows, Stats: *stats}, nil
}

func (s *TaskService) GetByID(taskID, userID uuid.UUID) (*dto.TaskWithCategory, error) {
	var row dto.TaskWithCategory
	err := s.db.Model(&models.Task{}).
		Select("tasks.*, categories.name AS category_name, categories.color AS category_color").
		Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
		Where("tasks.id = ? AND tasks.user_id = ?", taskID, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return &row, nil
}

// Update overwrites title, description and category in one scoped statement.
func (s *TaskService) Update(taskID, userID uuid.UUID, req dto.UpdateTaskRequest) (*dto.TaskWithCategory, error) {
	if err := s.validate(userID, req.Title, req.Description, req.CategoryID); err != nil {
		return nil, err
	}

	result := s.db.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", taskID, userID).
		Updates(map[string]interface{}{
			"title":       strings.TrimSpace(req.Title),
			"description": req.Description,
			"category_id": req.CategoryID,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}

	return s.GetByID(taskID, userID)
}

// Toggle flips completion in a single conditional UPDATE so two concurrent
// toggles cannot interleave; completed_at is set or cleared in the same
// statement that flips the flag.
func (s *TaskService) Toggle(taskID, userID uuid.UUID) (*dto.TaskWithCategory, error) {
	now := s.clock.Now()
	result := s.db.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", taskID, userID).
		Updates(map[string]interface{}{
			"is_completed": gorm.Expr("NOT is_completed"),
			"completed_at": gorm.Expr("CASE WHEN is_completed THEN NULL ELSE ? END", now),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}

	return s.GetByID(taskID, userID)
}

func (s *TaskService) Delete(taskID, userID uuid.UUID) (bool, error) {
	result := s.db.Where("id = ? AND user_id = ?", taskID, userID).Delete(&models.Task{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete task: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *TaskService) Stats(userID uuid.UUID) (*dto.TaskStats, error) {
	var stats dto.TaskStats
	if err := s.db.Model(&models.Task{}).Scopes(scope.ForUser(userID)).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	if err := s.db.Model(&models.Task{}).Scopes(scope.ForUser(userID)).
		Where("is_completed = ?", true).Count(&stats.Completed).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	stats.Pending = stats.Total - stats.Completed
	return &stats, nil
}

func (s *TaskService) validate(userID uuid.UUID, title, description string, categoryID *uuid.UUID) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if len(title) > 255 {
		return ErrTitleTooLong
	}
	if len(description) > 1000 {
		return ErrDescriptionTooLong
	}
	if categoryID != nil {
		var category models.Category
		err := s.db.Scopes(scope.ForUser(userID)).First(&category, "id = ?", *categoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotOwned
		}
		if err != nil {
			return fmt.Errorf("failed to check category owner: %w", err)
		}
	}
	return nil
}
