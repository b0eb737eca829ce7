// Package testutil provides test helpers and fixtures.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskmasters/taskmasters-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB creates an in-memory SQLite database with the domain schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Task{},
		&models.Pomodoro{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// FakeClock returns a fixed instant until Current is changed.
type FakeClock struct {
	Current time.Time
}

func (c *FakeClock) Now() time.Time { return c.Current }

// Advance moves the clock forward.
func (c *FakeClock) Advance(d time.Duration) { c.Current = c.Current.Add(d) }

// NewTestUser creates a user row directly in the database.
func NewTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Password:     "not-a-real-hash",
		Name:         "Test User",
		PomodoroGoal: models.DefaultPomodoroGoal,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// NewTestCategory creates a category row for a user.
func NewTestCategory(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:     uuid.New(),
		Name:   name,
		Color:  models.DefaultCategoryColor,
		UserID: userID,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

// NewTestTask creates a task row for a user.
func NewTestTask(t *testing.T, db *gorm.DB, userID uuid.UUID, categoryID *uuid.UUID, title string) *models.Task {
	t.Helper()
	task := &models.Task{
		ID:         uuid.New(),
		Title:      title,
		CategoryID: categoryID,
		UserID:     userID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
