package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/healthdiary/backend/internal/models"
)

// RunMigrations creates or updates the users, diary_entries and
// recommendations tables.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.DiaryEntry{},
		&models.Recommendation{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
