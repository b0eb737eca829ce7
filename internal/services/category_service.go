package services

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/taskmasters/taskmasters-api/internal/dto"
	"github.com/taskmasters/taskmasters-api/internal/models"
	"github.com/taskmasters/taskmasters-api/internal/scope"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrDuplicateCategoryName = errors.New("a category with that name already exists")
	ErrCategoryNotEmpty      = errors.New("category still has tasks assigned")
	ErrCategoryNameRequired  = errors.New("category name is required")
	ErrCategoryNameTooLong   = errors.New("category name must be at most 50 characters")
	ErrInvalidColor          = errors.New("color must be a hex code like #FF0000")
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// defaultCategories is the starter set seeded for new users.
var defaultCategories = []struct {
	Name  string
	Color string
}{
	{Name: "Personal", Color: "#10B981"},
	{Name: "Trabajo", Color: "#3B82F6"},
	{Name: "Estudio", Color: "#8B5CF6"},
	{Name: "Urgente", Color: "#EF4444"},
}

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) Create(userID uuid.UUID, req dto.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	if len(name) > 50 {
		return nil, ErrCategoryNameTooLong
	}

	color := req.Color
	if color == "" {
		color = models.DefaultCategoryColor
	}
	if !hexColorPattern.MatchString(color) {
		return nil, ErrInvalidColor
	}

	var existing models.Category
	if err := s.db.Scopes(scope.ForUser(userID)).Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrDuplicateCategoryName
	}

	category := models.Category{
		ID:     uuid.New(),
		Name:   name,
		Color:  color,
		UserID: userID,
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &category, nil
}

// List returns the user's categories with live task counts, oldest first.
func (s *CategoryService) List(userID uuid.UUID) ([]dto.CategoryWithCount, error) {
	var rows []dto.CategoryWithCount
	err := s.db.Model(&models.Category{}).
		Select("categories.*, (SELECT COUNT(*) FROM tasks WHERE tasks.category_id = categories.id AND tasks.user_id = categories.user_id) AS task_count").
		Where("categories.user_id = ?", userID).
		Order("categories.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return rows, nil
}

func (s *CategoryService) GetByID(categoryID, userID uuid.UUID) (*dto.CategoryWithCount, error) {
	var row dto.CategoryWithCount
	err := s.db.Model(&models.Category{}).
		Select("categories.*, (SELECT COUNT(*) FROM tasks WHERE tasks.category_id = categories.id AND tasks.user_id = categories.user_id) AS task_count").
		Where("categories.id = ? AND categories.user_id = ?", categoryID, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}
	return &row, nil
}

func (s *CategoryService) Update(categoryID, userID uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryWithCount, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	if len(name) > 50 {
		return nil, ErrCategoryNameTooLong
	}
	if !hexColorPattern.MatchString(req.Color) {
		return nil, ErrInvalidColor
	}

	var clash models.Category
	if err := s.db.Scopes(scope.ForUser(userID)).
		Where("name = ? AND id <> ?", name, categoryID).
		First(&clash).Error; err == nil {
		return nil, ErrDuplicateCategoryName
	}

	result := s.db.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Updates(map[string]interface{}{"name": name, "color": req.Color})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrCategoryNotFound
	}

	return s.GetByID(categoryID, userID)
}

// Delete removes a category; it refuses while tasks still reference it. The
// guard and the delete run in one transaction so a task created in between
// cannot orphan itself.
func (s *CategoryService) Delete(categoryID, userID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Scopes(scope.ForUser(userID)).First(&category, "id = ?", categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to fetch category: %w", err)
		}

		var taskCount int64
		if err := tx.Model(&models.Task{}).
			Where("category_id = ? AND user_id = ?", categoryID, userID).
			Count(&taskCount).Error; err != nil {
			return fmt.Errorf("failed to count category tasks: %w", err)
		}
		if taskCount > 0 {
			return ErrCategoryNotEmpty
		}

		return tx.Delete(&category).Error
	})
}

// Tasks returns the tasks belonging to a category, newest first.
func (s *CategoryService) Tasks(categoryID, userID uuid.UUID) ([]dto.TaskWithCategory, error) {
	var category models.Category
	if err := s.db.Scopes(scope.ForUser(userID)).First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}

	var rows []dto.TaskWithCategory
	err := s.db.Model(&models.Task{}).
		Select("tasks.*, categories.name AS category_name, categories.color AS category_color").
		Joins("JOIN categories ON categories.id = tasks.category_id").
		Where("tasks.category_id = ? AND tasks.user_id = ?", categoryID, userID).
		Order("tasks.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list category tasks: %w", err)
	}
	return rows, nil
}

// SeedDefaults idempotently creates the starter categories for a user.
// Already-existing names are skipped; any other failure aborts the seeding.
func (s *CategoryService) SeedDefaults(userID uuid.UUID) ([]models.Category, error) {
	created := make([]models.Category, 0, len(defaultCategories))

	for _, def := range defaultCategories {
		category, err := s.Create(userID, dto.CreateCategoryRequest{Name: def.Name, Color: def.Color})
		if errors.Is(err, ErrDuplicateCategoryName) {
			continue
		}
		if err != nil {
			return nil, err
		}
		created = append(created, *category)
	}

	if len(created) > 0 {
		slog.Info("seeded default categories", "user_id", userID.String(), "new", len(created))
	}
	return created, nil
}
