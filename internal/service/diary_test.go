package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/healthdiary/backend/internal/models"
	"github.com/pageza/healthdiary/backend/internal/service"
	"github.com/pageza/healthdiary/backend/internal/testhelpers"
)

func TestDiaryService_AddEntry(t *testing.T) {
	f := newFixture(t, &testhelpers.MockGenerator{}, nil)
	ctx := context.Background()
	register(t, f, "u1")

	id, err := f.diary.AddEntry(ctx, "u1", diaryEntry("2025-01-15"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	entries, err := f.diary.ListEntries(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "2025-01-15", got.Date)
	assert.Equal(t, models.JSONStringArray{"oatmeal", "salad"}, got.Meals)
	assert.Equal(t, models.JSONStringArray{"walk"}, got.Activities)
	require.Len(t, got.Conditions, 1)
	assert.Equal(t, "headache", got.Conditions[0].Condition)
	assert.Equal(t, 4, got.Conditions[0].Severity)
	assert.False(t, got.Conditions[0].Timestamp.IsZero(), "missing timestamps default to the server clock")
	assert.False(t, got.CreatedAt.IsZero())
}

func TestDiaryService_AddEntryUnknownUser(t *testing.T) {
	f := newFixture(t, &testhelpers.MockGenerator{}, nil)
	_, err := f.diary.AddEntry(context.Background(), "ghost", diaryEntry("2025-01-15"))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDiaryService_AddEntryValidation(t *testing.T) {
	f := newFixture(t, &testhelpers.MockGenerator{}, nil)
	ctx := context.Background()
	register(t, f, "u1")

	tests := []struct {
		name   string
		mutate func(e *models.DiaryEntry)
	}{
		{"missing date", func(e *models.DiaryEntry) { e.Date = "" }},
		{"missing meals", func(e *models.DiaryEntry) { e.Meals = nil }},
		{"missing conditions", func(e *models.DiaryEntry) { e.Conditions = nil }},
		{"severity below range", func(e *models.DiaryEntry) { e.Conditions[0].Severity = 0 }},
		{"severity above range", func(e *models.DiaryEntry) { e.Conditions[0].Severity = 11 }},
		{"empty condition name", func(e *models.DiaryEntry) { e.Conditions[0].Condition = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := diaryEntry("2025-01-15")
			tt.mutate(entry)
			_, err := f.diary.AddEntry(ctx, "u1", entry)
			assert.ErrorIs(t, err, service.ErrValidation)
		})
	}
}

func TestDiaryService_AddEntryEmptyLists(t *testing.T) {
	f := newFixture(t, &testhelpers.MockGenerator{}, nil)
	ctx := context.Background()
	register(t, f, "u1")

	_, err := f.diary.AddEntry(ctx, "u1", &models.DiaryEntry{
		Date:       "2025-01-15",
		Meals:      models.JSONStringArray{},
		Conditions: models.Conditions{},
	})
	require.NoError(t, err)

	entries, err := f.diary.ListEntries(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Meals)
	assert.Empty(t, entries[0].Conditions)
	assert.NotNil(t, entries[0].Activities)
}

func TestDiaryService_ListEntriesNewestFirst(t *testing.T) {
	f := newFixture(t, &testhelpers.MockGenerator{}, nil)
	ctx := context.Background()
	register(t, f, "u1")

	for day := 1; day <= 12; day++ {
		_, err := f.diary.AddEntry(ctx, "u1", diaryEntry(fmt.Sprintf("2025-01-%02d", day)))
		require.NoError(t, err)
	}

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: 10},
		{limit: 3, want: 3},
		{limit: 12, want: 12},
		{limit: 50, want: 12},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit=%d", tt.limit), func(t *testing.T) {
			entries, err := f.diary.ListEntries(ctx, "u1", tt.limit)
			require.NoError(t, err)
			require.Len(t, entries, tt.want)
			assert.Equal(t, "2025-01-12", entries[0].Date)
			for i := 1; i < len(entries); i++ {
				assert.True(t, entries[i-1].CreatedAt.After(entries[i].CreatedAt))
			}
		})
	}
}

func TestDiaryService_ListEntriesLargeLimit(t *testing.T) {
	f := newFixture(t, &testhelpers.MockGenerator{}, nil)
	ctx := context.Background()
	register(t, f, "u1")

	const total = 120
	for i := 0; i < total; i++ {
		_, err := f.diary.AddEntry(ctx, "u1", diaryEntry(fmt.Sprintf("day-%03d", i)))
		require.NoError(t, err)
	}

	entries, err := f.diary.ListEntries(ctx, "u1", 150)
	require.NoError(t, err)
	require.Len(t, entries, total)
	assert.Equal(t, fmt.Sprintf("day-%03d", total-1), entries[0].Date)

	entries, err = f.diary.ListEntries(ctx, "u1", 110)
	require.NoError(t, err)
	assert.Len(t, entries, 110)
}

func TestDiaryService_ListEntriesUnknownUser(t *testing.T) {
	f := newFixture(t, &testhelpers.MockGenerator{}, nil)
	entries, err := f.diary.ListEntries(context.Background(), "ghost", 10)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
