package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/healthdiary/backend/internal/models"
	"github.com/pageza/healthdiary/backend/internal/service"
	"github.com/pageza/healthdiary/backend/internal/testhelpers"
	"github.com/pageza/healthdiary/backend/internal/types"
)

var epoch = time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

type fixture struct {
	db              *gorm.DB
	users           *service.UserService
	diary           *service.DiaryService
	recommendations *service.RecommendationService
}

func newFixture(t *testing.T, gen service.Generator, archiver service.Archiver) *fixture {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	clock := testhelpers.StepClock(epoch)
	log := zap.NewNop()

	users := service.NewUserService(db, service.NewAuthService("test-secret", clock), archiver, log)
	return &fixture{
		db:    db,
		users: users,
		diary: service.NewDiaryService(db, users, clock, log),
		recommendations: service.NewRecommendationService(db, users, gen, service.RecommendationOptions{
			Archiver: archiver,
			Clock:    clock,
			Timeout:  5 * time.Second,
		}, log),
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func profileRequest(userID string) *types.ProfileRequest {
	return &types.ProfileRequest{
		UserID:            userID,
		Age:               intPtr(30),
		Gender:            "female",
		Weight:            floatPtr(62.5),
		Height:            floatPtr(168),
		Allergies:         []string{"peanuts"},
		MedicalConditions: []string{"asthma"},
	}
}

func register(t *testing.T, f *fixture, userID string) {
	t.Helper()
	_, err := f.users.Register(context.Background(), profileRequest(userID))
	require.NoError(t, err)
}

func diaryEntry(date string) *models.DiaryEntry {
	return &models.DiaryEntry{
		Date:  date,
		Meals: models.JSONStringArray{"oatmeal", "salad"},
		Conditions: models.Conditions{
			{Condition: "headache", Severity: 4},
		},
		Activities: models.JSONStringArray{"walk"},
	}
}
