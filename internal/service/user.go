package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/healthdiary/backend/internal/models"
	"github.com/pageza/healthdiary/backend/internal/types"
)

// UserService handles profile registration, lookup, replacement and the
// cascading delete of everything a user owns.
type UserService struct {
	db       *gorm.DB
	auth     *AuthService
	archiver Archiver
	log      *zap.Logger
}

// Ensure UserService implements IUserService
var _ IUserService = (*UserService)(nil)

func NewUserService(db *gorm.DB, auth *AuthService, archiver Archiver, log *zap.Logger) *UserService {
	if archiver == nil {
		archiver = NoopArchiver{}
	}
	return &UserService{
		db:       db,
		auth:     auth,
		archiver: archiver,
		log:      log.Named("users"),
	}
}

// Register stores a new profile and returns its identifier.
func (s *UserService) Register(ctx context.Context, req *types.ProfileRequest) (string, error) {
	profile, err := s.insert(ctx, req)
	if err != nil {
		return "", err
	}
	return profile.UserID, nil
}

// Create stores a new profile and returns the store-assigned id.
func (s *UserService) Create(ctx context.Context, req *types.ProfileRequest) (uuid.UUID, error) {
	profile, err := s.insert(ctx, req)
	if err != nil {
		return uuid.Nil, err
	}
	return profile.ID, nil
}

func (s *UserService) insert(ctx context.Context, req *types.ProfileRequest) (*models.UserProfile, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	exists, err := s.exists(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	profile := &models.UserProfile{UserID: req.UserID}
	applyProfile(profile, req)

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		profile.PasswordHash = string(hash)
	}

	if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
		// Lost a race with a concurrent registration of the same identifier.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", profile.UserID), zap.Bool("password", profile.HasPassword()))
	return profile, nil
}

// Login returns the stored profile and, when signing is configured, a
// session token. Profiles registered without a password are authenticated
// by identifier alone.
func (s *UserService) Login(ctx context.Context, userID, password string) (*models.UserProfile, string, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	if profile.HasPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
			return nil, "", ErrUnauthorized
		}
	}

	if s.auth == nil || !s.auth.Enabled() {
		return profile, "", nil
	}
	token, err := s.auth.GenerateToken(profile.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return profile, token, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &profile, nil
}

// Replace overwrites every mutable field of the profile. The identifier and
// credential are left untouched.
func (s *UserService) Replace(ctx context.Context, userID string, req *types.ProfileRequest) error {
	replacement := *req
	replacement.UserID = userID
	replacement.Password = ""
	if err := validateStruct(&replacement); err != nil {
		return err
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	before, err := mutableSnapshot(profile)
	if err != nil {
		return err
	}
	applyProfile(profile, &replacement)
	after, err := mutableSnapshot(profile)
	if err != nil {
		return err
	}
	if bytes.Equal(before, after) {
		return ErrNoChange
	}

	err = s.db.WithContext(ctx).Model(profile).
		Select("age", "gender", "weight", "height", "allergies", "medical_conditions", "updated_at").
		Updates(profile).Error
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes the profile together with its diary entries and
// recommendations in one transaction.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&models.UserProfile{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.DiaryEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete diary entries: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Recommendation{}).Error; err != nil {
			return fmt.Errorf("failed to delete recommendations: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.archiver.Purge(ctx, userID); err != nil {
		s.log.Warn("failed to purge archived reports", zap.String("user_id", userID), zap.Error(err))
	}
	s.log.Info("user deleted", zap.String("user_id", userID))
	return nil
}

func (s *UserService) exists(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserProfile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

func applyProfile(profile *models.UserProfile, req *types.ProfileRequest) {
	profile.Age = *req.Age
	profile.Gender = req.Gender
	profile.Weight = req.Weight
	profile.Height = req.Height
	profile.Allergies = normalizeList(req.Allergies)
	profile.MedicalConditions = normalizeList(req.MedicalConditions)
}

func normalizeList(in []string) models.JSONStringArray {
	if in == nil {
		return models.JSONStringArray{}
	}
	return models.JSONStringArray(in)
}

// mutableSnapshot serializes the fields Replace may change, so that "no
// change" means byte-for-byte identical.
func mutableSnapshot(p *models.UserProfile) ([]byte, error) {
	return json.Marshal(struct {
		Age               int                    `json:"age"`
		Gender            string                 `json:"gender"`
		Weight            *float64               `json:"weight"`
		Height            *float64               `json:"height"`
		Allergies         models.JSONStringArray `json:"allergies"`
		MedicalConditions models.JSONStringArray `json:"medical_conditions"`
	}{p.Age, p.Gender, p.Weight, p.Height, normalizeList(p.Allergies), normalizeList(p.MedicalConditions)})
}
