package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/healthdiary/backend/internal/models"
	"github.com/pageza/healthdiary/backend/internal/service"
)

func TestBuildPrompt(t *testing.T) {
	weight := 62.5
	profile := &models.UserProfile{
		UserID:            "u1",
		Age:               30,
		Gender:            "female",
		Weight:            &weight,
		Allergies:         models.JSONStringArray{"peanuts", "shellfish"},
		MedicalConditions: models.JSONStringArray{},
	}
	entries := []models.DiaryEntry{
		{
			Date:       "2025-01-15",
			Meals:      models.JSONStringArray{"oatmeal", "salad"},
			Conditions: models.Conditions{{Condition: "headache", Severity: 4}},
			Activities: models.JSONStringArray{"walk"},
		},
	}

	prompt := service.BuildPrompt(profile, entries)

	assert.True(t, strings.HasPrefix(prompt, "User Profile:\n"))
	assert.Contains(t, prompt, "- Age: 30\n")
	assert.Contains(t, prompt, "- Gender: female\n")
	assert.Contains(t, prompt, "- Weight: 62.5 kg\n")
	assert.Contains(t, prompt, "- Height: not provided\n")
	assert.Contains(t, prompt, "- Allergies: peanuts, shellfish\n")
	assert.Contains(t, prompt, "- Medical Conditions: none\n")
	assert.Contains(t, prompt, "Recent Health Data (Last 7 days):")
	assert.Contains(t, prompt, "Date: 2025-01-15\n")
	assert.Contains(t, prompt, "Meals: oatmeal, salad\n")
	assert.Contains(t, prompt, "  - headache (Severity: 4/10)\n")
	assert.Contains(t, prompt, "Activities: walk\n")
	assert.True(t, strings.HasSuffix(prompt, "menu, exercise, insights, recommendations"))

	assert.Equal(t, prompt, service.BuildPrompt(profile, entries), "rendering is deterministic")
}

func TestBuildPromptWithoutEntries(t *testing.T) {
	prompt := service.BuildPrompt(&models.UserProfile{Age: 40, Gender: "male"}, nil)

	assert.Contains(t, prompt, "Recent Health Data (Last 7 days):\n\n")
	assert.NotContains(t, prompt, "Date:")
	assert.Contains(t, prompt, "Daily menu recommendations (breakfast, lunch, dinner, snacks)")
}
