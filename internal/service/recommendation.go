package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/pageza/healthdiary/backend/internal/models"
)

// RecommendationService assembles a user's recent history into a prompt,
// asks the generator for advice and keeps every result as history.
type RecommendationService struct {
	db        *gorm.DB
	users     *UserService
	generator Generator
	archiver  Archiver
	now       Clock
	timeout   time.Duration
	log       *zap.Logger
}

var _ IRecommendationService = (*RecommendationService)(nil)

// RecommendationOptions carries the optional collaborators of a
// RecommendationService.
type RecommendationOptions struct {
	Archiver Archiver
	Clock    Clock
	Timeout  time.Duration
}

func NewRecommendationService(db *gorm.DB, users *UserService, generator Generator, opts RecommendationOptions, log *zap.Logger) *RecommendationService {
	if opts.Archiver == nil {
		opts.Archiver = NoopArchiver{}
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	return &RecommendationService{
		db:        db,
		users:     users,
		generator: generator,
		archiver:  opts.Archiver,
		now:       opts.Clock,
		timeout:   opts.Timeout,
		log:       log.Named("recommendations"),
	}
}

// Generate produces, stores and returns a new recommendation for the user.
// Nothing is stored when the generator fails.
func (s *RecommendationService) Generate(ctx context.Context, userID string) (*models.Recommendation, error) {
	var (
		profile *models.UserProfile
		entries []models.DiaryEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.users.Get(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = recentEntries(gctx, s.db, userID, ContextEntries)
		if err != nil {
			return fmt.Errorf("failed to load diary context: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(profile, entries)

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	reply, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			genErr = &GenerationError{Provider: s.generator.Name(), Kind: GenerationUnavailable, Err: err}
		}
		s.log.Error("recommendation generation failed",
			zap.String("user_id", userID),
			zap.String("provider", genErr.Provider),
			zap.String("kind", string(genErr.Kind)),
			zap.Error(genErr.Err))
		return nil, genErr
	}

	text, format := FormatReply(reply)
	rec := &models.Recommendation{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      text,
		Format:    format,
		Provider:  s.generator.Name(),
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("failed to save recommendation: %w", err)
	}

	if err := s.archiver.Archive(ctx, rec); err != nil {
		s.log.Warn("failed to archive recommendation", zap.String("id", rec.ID.String()), zap.Error(err))
	}

	s.log.Info("recommendation generated",
		zap.String("user_id", userID),
		zap.String("format", format),
		zap.Int("context_entries", len(entries)),
		zap.Duration("latency", time.Since(started)))
	return rec, nil
}

// ListHistory returns up to limit recommendations, newest first.
func (s *RecommendationService) ListHistory(ctx context.Context, userID string, limit int) ([]models.Recommendation, error) {
	history := []models.Recommendation{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limitOrDefault(limit, DefaultHistoryLimit)).
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return history, nil
}
