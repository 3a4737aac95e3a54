package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HealthCondition is a symptom recorded inside a diary entry.
type HealthCondition struct {
	Condition string    `json:"condition" validate:"required"`
	Severity  int       `json:"severity" validate:"min=1,max=10"`
	Notes     *string   `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DiaryEntry is one daily record of meals, activities and conditions.
type DiaryEntry struct {
	ID         uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     string          `gorm:"size:128;not null;index:idx_diary_user_created,priority:1" json:"user_id"`
	Date       string          `gorm:"size:32;not null" json:"date" validate:"required"`
	Meals      JSONStringArray `gorm:"type:jsonb;not null" json:"meals" validate:"required"`
	Conditions Conditions      `gorm:"type:jsonb;not null" json:"conditions" validate:"required,dive"`
	Activities JSONStringArray `gorm:"type:jsonb" json:"activities"`
	Notes      *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time       `gorm:"not null;index:idx_diary_user_created,priority:2" json:"created_at"`
}

func (DiaryEntry) TableName() string {
	return "diary_entries"
}

func (e *DiaryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
