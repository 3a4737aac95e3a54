package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/healthdiary/backend/internal/models"
)

const (
	DefaultDiaryLimit   = 10
	DefaultHistoryLimit = 5
)

// DiaryService records and lists diary entries.
type DiaryService struct {
	db    *gorm.DB
	users *UserService
	now   Clock
	log   *zap.Logger
}

var _ IDiaryService = (*DiaryService)(nil)

func NewDiaryService(db *gorm.DB, users *UserService, now Clock, log *zap.Logger) *DiaryService {
	if now == nil {
		now = SystemClock
	}
	return &DiaryService{
		db:    db,
		users: users,
		now:   now,
		log:   log.Named("diary"),
	}
}

// AddEntry validates and stores an entry for an existing user.
func (s *DiaryService) AddEntry(ctx context.Context, userID string, entry *models.DiaryEntry) (uuid.UUID, error) {
	if err := validateStruct(entry); err != nil {
		return uuid.Nil, err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return uuid.Nil, err
	}

	now := s.now()
	record := *entry
	record.ID = uuid.New()
	record.UserID = userID
	record.CreatedAt = now
	if record.Activities == nil {
		record.Activities = models.JSONStringArray{}
	}
	record.Conditions = make(models.Conditions, len(entry.Conditions))
	for i, c := range entry.Conditions {
		if c.Timestamp.IsZero() {
			c.Timestamp = now
		}
		record.Conditions[i] = c
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to add diary entry: %w", err)
	}

	s.log.Debug("diary entry added", zap.String("user_id", userID), zap.String("entry_id", record.ID.String()))
	return record.ID, nil
}

// ListEntries returns up to limit entries, newest first. Unknown users
// simply have no entries.
func (s *DiaryService) ListEntries(ctx context.Context, userID string, limit int) ([]models.DiaryEntry, error) {
	entries, err := recentEntries(ctx, s.db, userID, limitOrDefault(limit, DefaultDiaryLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to list diary entries: %w", err)
	}
	return entries, nil
}

func recentEntries(ctx context.Context, db *gorm.DB, userID string, limit int) ([]models.DiaryEntry, error) {
	entries := []models.DiaryEntry{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// limitOrDefault applies the default for non-positive limits. Positive
// limits are used as given.
func limitOrDefault(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
