package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report formats a stored recommendation can have.
const (
	FormatStructured = "structured"
	FormatRaw        = "raw"
)

// Recommendation is a generated report persisted for a user's history.
type Recommendation struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    string    `gorm:"size:128;not null;index:idx_recommendation_user_created,priority:1" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"recommendation"`
	Format    string    `gorm:"size:16;not null" json:"format"`
	Provider  string    `gorm:"size:32" json:"provider"`
	CreatedAt time.Time `gorm:"not null;index:idx_recommendation_user_created,priority:2" json:"created_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}

func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
