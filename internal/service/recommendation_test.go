package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/healthdiary/backend/internal/models"
	"github.com/pageza/healthdiary/backend/internal/service"
	"github.com/pageza/healthdiary/backend/internal/testhelpers"
)

func TestRecommendationService_GenerateStructured(t *testing.T) {
	gen := &testhelpers.MockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "headache (Severity: 4/10)")
	})).Return(`{"menu": {"breakfast": "eggs"}}`, nil).Once()

	f := newFixture(t, gen, nil)
	ctx := context.Background()
	register(t, f, "u1")
	_, err := f.diary.AddEntry(ctx, "u1", diaryEntry("2025-01-15"))
	require.NoError(t, err)

	rec, err := f.recommendations.Generate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.FormatStructured, rec.Format)
	assert.Equal(t, "mock", rec.Provider)
	assert.Contains(t, rec.Text, "📋 DAILY MENU PLAN")
	assert.Greater(t, strings.Index(rec.Text, "eggs"), strings.Index(rec.Text, "DAILY MENU PLAN"))

	history, err := f.recommendations.ListHistory(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)
	assert.Equal(t, rec.Text, history[0].Text)

	gen.AssertExpectations(t)
}

func TestRecommendationService_GenerateFreeTextStoredVerbatim(t *testing.T) {
	reply := "Eat more leafy greens and take a short walk after lunch."
	gen := &testhelpers.MockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(reply, nil)

	f := newFixture(t, gen, nil)
	register(t, f, "u1")

	rec, err := f.recommendations.Generate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, reply, rec.Text)
	assert.Equal(t, models.FormatRaw, rec.Format)
}

func TestRecommendationService_GenerateEmptySectionsStoredVerbatim(t *testing.T) {
	reply := `{"menu": null}`
	gen := &testhelpers.MockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(reply, nil)

	f := newFixture(t, gen, nil)
	register(t, f, "u1")

	rec, err := f.recommendations.Generate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, reply, rec.Text)
	assert.Equal(t, models.FormatRaw, rec.Format)
}

func TestRecommendationService_GenerateWithoutEntries(t *testing.T) {
	gen := &testhelpers.MockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return !strings.Contains(prompt, "Date:") && strings.Contains(prompt, "User Profile:")
	})).Return("advice", nil).Once()

	f := newFixture(t, gen, nil)
	register(t, f, "u1")

	rec, err := f.recommendations.Generate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "advice", rec.Text)
	gen.AssertExpectations(t)
}

func TestRecommendationService_GenerateUsesSevenMostRecentEntries(t *testing.T) {
	var captured string
	gen := &testhelpers.MockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.String(1) }).
		Return("advice", nil)

	f := newFixture(t, gen, nil)
	ctx := context.Background()
	register(t, f, "u1")
	for day := 1; day <= 9; day++ {
		_, err := f.diary.AddEntry(ctx, "u1", diaryEntry(fmt.Sprintf("2025-01-%02d", day)))
		require.NoError(t, err)
	}

	_, err := f.recommendations.Generate(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, service.ContextEntries, strings.Count(captured, "Date: "))
	assert.Contains(t, captured, "Date: 2025-01-09")
	assert.Contains(t, captured, "Date: 2025-01-03")
	assert.NotContains(t, captured, "Date: 2025-01-02")
}

func TestRecommendationService_GenerateUnknownUser(t *testing.T) {
	gen := &testhelpers.MockGenerator{}
	f := newFixture(t, gen, nil)

	_, err := f.recommendations.Generate(context.Background(), "ghost")
	assert.ErrorIs(t, err, service.ErrNotFound)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestRecommendationService_GeneratorFailurePersistsNothing(t *testing.T) {
	gen := &testhelpers.MockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return("", &service.GenerationError{
		Provider: "mock",
		Kind:     service.GenerationRateLimited,
		Err:      errors.New("quota exceeded"),
	})

	f := newFixture(t, gen, nil)
	ctx := context.Background()
	register(t, f, "u1")

	_, err := f.recommendations.Generate(ctx, "u1")
	var genErr *service.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, service.GenerationRateLimited, genErr.Kind)
	assert.True(t, genErr.Transient())

	history, err := f.recommendations.ListHistory(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecommendationService_UntypedGeneratorErrorIsWrapped(t *testing.T) {
	gen := &testhelpers.MockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("connection reset"))

	f := newFixture(t, gen, nil)
	register(t, f, "u1")

	_, err := f.recommendations.Generate(context.Background(), "u1")
	var genErr *service.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, service.GenerationUnavailable, genErr.Kind)
	assert.Equal(t, "mock", genErr.Provider)
}

func TestRecommendationService_ArchivesBestEffort(t *testing.T) {
	gen := &testhelpers.MockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return("advice", nil)
	archiver := &testhelpers.MockArchiver{}
	archiver.On("Archive", mock.Anything, mock.MatchedBy(func(rec *models.Recommendation) bool {
		return rec.UserID == "u1" && rec.Text == "advice"
	})).Return(errors.New("bucket unreachable")).Once()

	f := newFixture(t, gen, archiver)
	register(t, f, "u1")

	rec, err := f.recommendations.Generate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "advice", rec.Text)
	archiver.AssertExpectations(t)
}

func TestRecommendationService_ListHistory(t *testing.T) {
	gen := &testhelpers.MockGenerator{}
	for i := 1; i <= 7; i++ {
		gen.On("Generate", mock.Anything, mock.Anything).Return(fmt.Sprintf("advice %d", i), nil).Once()
	}

	f := newFixture(t, gen, nil)
	ctx := context.Background()
	register(t, f, "u1")
	for i := 0; i < 7; i++ {
		_, err := f.recommendations.Generate(ctx, "u1")
		require.NoError(t, err)
	}

	history, err := f.recommendations.ListHistory(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, history, service.DefaultHistoryLimit)
	assert.Equal(t, "advice 7", history[0].Text)
	assert.Equal(t, "advice 3", history[4].Text)

	history, err = f.recommendations.ListHistory(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "advice 7", history[0].Text)

	history, err = f.recommendations.ListHistory(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, history)
}

// End to end: register, log a day, generate, read it back.
func TestRecommendationFlow(t *testing.T) {
	gen := &testhelpers.MockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(`{"menu": {"breakfast": "eggs"}}`, nil)

	f := newFixture(t, gen, nil)
	ctx := context.Background()

	id, err := f.users.Register(ctx, profileRequest("u1"))
	require.NoError(t, err)
	require.Equal(t, "u1", id)

	_, err = f.diary.AddEntry(ctx, "u1", &models.DiaryEntry{
		Date:       "2025-01-15",
		Meals:      models.JSONStringArray{"oatmeal"},
		Conditions: models.Conditions{{Condition: "fatigue", Severity: 6}},
	})
	require.NoError(t, err)

	rec, err := f.recommendations.Generate(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, rec.Text, "eggs")

	history, err := f.recommendations.ListHistory(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec.Text, history[0].Text)
}
