package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#3B82F6"

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:50;uniqueIndex:idx_categories_user_name" json:"name"`
	Color     string    `gorm:"not null;size:7;default:'#3B82F6'" json:"color"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
