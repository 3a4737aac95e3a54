package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfile is the stored profile of a diary owner. UserID is the
// caller-supplied identifier every other collection is keyed by.
type UserProfile struct {
	ID                uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID            string          `gorm:"size:128;not null;uniqueIndex" json:"user_id"`
	Age               int             `gorm:"not null" json:"age"`
	Gender            string          `gorm:"size:32;not null" json:"gender"`
	Weight            *float64        `json:"weight"`
	Height            *float64        `json:"height"`
	Allergies         JSONStringArray `gorm:"type:jsonb" json:"allergies"`
	MedicalConditions JSONStringArray `gorm:"type:jsonb" json:"medical_conditions"`
	PasswordHash      string          `gorm:"size:255" json:"-"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "users"
}

// BeforeCreate assigns the store id when the caller did not.
func (u *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasPassword reports whether the profile was registered with a credential.
func (u *UserProfile) HasPassword() bool {
	return u.PasswordHash != ""
}
