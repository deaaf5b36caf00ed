package database

import (
	"gorm.io/gorm"

	"github.com/mealmuse/backend/internal/models"
)

// Migrate brings the schema up to date for all persisted entities
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.AIRecipe{},
	)
}
