package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/healthdiary/backend/internal/models"
	"github.com/pageza/healthdiary/backend/internal/types"
)

// IUserService defines the interface for user profile operations
type IUserService interface {
	Register(ctx context.Context, req *types.ProfileRequest) (string, error)
	Create(ctx context.Context, req *types.ProfileRequest) (uuid.UUID, error)
	Login(ctx context.Context, userID, password string) (*models.UserProfile, string, error)
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Replace(ctx context.Context, userID string, req *types.ProfileRequest) error
	Delete(ctx context.Context, userID string) error
}

// IDiaryService defines the interface for diary entry operations
type IDiaryService interface {
	AddEntry(ctx context.Context, userID string, entry *models.DiaryEntry) (uuid.UUID, error)
	ListEntries(ctx context.Context, userID string, limit int) ([]models.DiaryEntry, error)
}

// IRecommendationService defines the interface for recommendation generation and history
type IRecommendationService interface {
	Generate(ctx context.Context, userID string) (*models.Recommendation, error)
	ListHistory(ctx context.Context, userID string, limit int) ([]models.Recommendation, error)
}

// Generator produces recommendation text from a prompt. Failures are
// reported as *GenerationError.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Archiver mirrors persisted recommendations to secondary storage.
type Archiver interface {
	Archive(ctx context.Context, rec *models.Recommendation) error
	Purge(ctx context.Context, userID string) error
}

// Clock returns the current time. Services take one so tests can control
// creation timestamps.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}
