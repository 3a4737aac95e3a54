package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/healthdiary/backend/config"
	"github.com/pageza/healthdiary/backend/internal/database"
	"github.com/pageza/healthdiary/backend/internal/logging"
	"github.com/pageza/healthdiary/backend/internal/models"
	"github.com/pageza/healthdiary/backend/internal/service"
	"github.com/pageza/healthdiary/backend/internal/types"
)

const testPassword = "testpassword123"

type seedUser struct {
	profile types.ProfileRequest
	days    []models.DiaryEntry
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	db, err := database.New(cfg, log.Named("database"))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	users := service.NewUserService(db, service.NewAuthService(cfg.JWTSecret, nil), nil, log)
	diary := service.NewDiaryService(db, users, nil, log)
	ctx := context.Background()

	for _, u := range seedUsers() {
		_, err := users.Register(ctx, &u.profile)
		if errors.Is(err, service.ErrConflict) {
			log.Info("user already exists, skipping", zap.String("user_id", u.profile.UserID))
			continue
		}
		if err != nil {
			log.Fatal("failed to create user", zap.String("user_id", u.profile.UserID), zap.Error(err))
		}

		for i := range u.days {
			if _, err := diary.AddEntry(ctx, u.profile.UserID, &u.days[i]); err != nil {
				log.Fatal("failed to add diary entry", zap.String("user_id", u.profile.UserID), zap.Error(err))
			}
		}
		log.Info("seeded user", zap.String("user_id", u.profile.UserID), zap.Int("entries", len(u.days)))
	}

	log.Info("test users ready", zap.String("password", testPassword))
}

func seedUsers() []seedUser {
	return []seedUser{
		{
			profile: types.ProfileRequest{
				UserID:            "jane",
				Age:               intPtr(34),
				Gender:            "female",
				Weight:            floatPtr(64),
				Height:            floatPtr(170),
				Allergies:         []string{"peanuts"},
				MedicalConditions: []string{"migraine"},
				Password:          testPassword,
			},
			days: []models.DiaryEntry{
				{
					Date:       "2025-01-13",
					Meals:      models.JSONStringArray{"oatmeal with banana", "chicken wrap", "pasta"},
					Conditions: models.Conditions{{Condition: "headache", Severity: 6}},
					Activities: models.JSONStringArray{"30 min walk"},
				},
				{
					Date:       "2025-01-14",
					Meals:      models.JSONStringArray{"yogurt", "lentil soup", "salmon and rice"},
					Conditions: models.Conditions{},
					Activities: models.JSONStringArray{"yoga"},
				},
			},
		},
		{
			profile: types.ProfileRequest{
				UserID:            "john",
				Age:               intPtr(52),
				Gender:            "male",
				Weight:            floatPtr(88),
				Allergies:         []string{},
				MedicalConditions: []string{"type 2 diabetes"},
				Password:          testPassword,
			},
			days: []models.DiaryEntry{
				{
					Date:       "2025-01-14",
					Meals:      models.JSONStringArray{"eggs and toast", "burger", "stir fry"},
					Conditions: models.Conditions{{Condition: "fatigue", Severity: 5}},
				},
			},
		},
		{
			profile: types.ProfileRequest{
				UserID: "sam",
				Age:    intPtr(27),
				Gender: "non-binary",
			},
		},
	}
}
