package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/healthdiary/backend/internal/models"
	"github.com/pageza/healthdiary/backend/internal/service"
)

const fullReport = `{
  "menu": {
    "breakfast": "Greek yogurt with berries",
    "lunch": "Quinoa salad",
    "dinner": ["Grilled salmon", "Steamed broccoli"],
    "snacks": ["Apple", "Almonds"]
  },
  "exercise": {
    "morning_cardio": "20 minute brisk walk",
    "strength": ["Squats", "Push-ups"]
  },
  "insights": [
    {"finding": "Headaches follow late dinners", "explanation": "Three of four headaches came after meals past 9pm."},
    "Hydration looks low"
  ],
  "recommendations": [
    {"area": "Sleep", "suggestion": "Aim for 8 hours."},
    {"suggestion": "Drink water before meals."}
  ]
}`

func TestFormatReplyStructured(t *testing.T) {
	text, format := service.FormatReply(fullReport)
	require.Equal(t, models.FormatStructured, format)

	rule := strings.Repeat("=", 60)
	assert.True(t, strings.HasPrefix(text, rule+"\n📋 DAILY MENU PLAN\n"+rule))
	assert.Contains(t, text, "\n☕ Breakfast:\nGreek yogurt with berries")
	assert.Contains(t, text, "\n☀️ Lunch:\nQuinoa salad")
	assert.Contains(t, text, "\n🌙 Dinner:\n  • Grilled salmon\n  • Steamed broccoli")
	assert.Contains(t, text, "\n🍎 Snacks:\n  • Apple\n  • Almonds")

	assert.Contains(t, text, "💪 EXERCISE RECOMMENDATIONS")
	assert.Contains(t, text, "\nMorning Cardio:\n20 minute brisk walk")
	assert.Contains(t, text, "\nStrength:\n  • Squats\n  • Push-ups")
	assert.Less(t, strings.Index(text, "Morning Cardio"), strings.Index(text, "Strength"), "exercise keys keep their order")

	assert.Contains(t, text, "💡 HEALTH INSIGHTS")
	assert.Contains(t, text, "\n1. Headaches follow late dinners\n   Three of four headaches came after meals past 9pm.")
	assert.Contains(t, text, "\n2. Hydration looks low")

	assert.Contains(t, text, "⚠️ ACTION RECOMMENDATIONS")
	assert.Contains(t, text, "\n1. Sleep\n   Aim for 8 hours.")
	assert.Contains(t, text, "\n2. Recommendation 2\n   Drink water before meals.")

	menu := strings.Index(text, "DAILY MENU PLAN")
	exercise := strings.Index(text, "EXERCISE RECOMMENDATIONS")
	insights := strings.Index(text, "HEALTH INSIGHTS")
	actions := strings.Index(text, "ACTION RECOMMENDATIONS")
	assert.True(t, menu < exercise && exercise < insights && insights < actions)
}

func TestFormatReplyBreakfastUnderMenu(t *testing.T) {
	text, format := service.FormatReply(`{"menu": {"breakfast": "eggs"}}`)
	require.Equal(t, models.FormatStructured, format)

	heading := strings.Index(text, "📋 DAILY MENU PLAN")
	breakfast := strings.Index(text, "eggs")
	require.GreaterOrEqual(t, heading, 0)
	assert.Greater(t, breakfast, heading)
	assert.NotContains(t, text, "Lunch")
	assert.NotContains(t, text, "EXERCISE")
}

func TestFormatReplyInsightFallbackTitle(t *testing.T) {
	text, _ := service.FormatReply(`{"insights": [{"explanation": "Sleep improved"}]}`)
	assert.Contains(t, text, "1. Insight 1\n   Sleep improved")
}

func TestFormatReplyCodeFence(t *testing.T) {
	reply := "```json\n{\"menu\": {\"snacks\": \"nuts\"}}\n```"
	text, format := service.FormatReply(reply)
	assert.Equal(t, models.FormatStructured, format)
	assert.Contains(t, text, "🍎 Snacks:\n  nuts")
}

func TestFormatReplyRawFallback(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"free text", "Eat more vegetables and walk daily."},
		{"json array", `["menu", "exercise"]`},
		{"unrecognized keys", `{"advice": "rest"}`},
		{"menu of wrong shape", `{"menu": "eggs"}`},
		{"insights of wrong shape", `{"insights": "drink water"}`},
		{"truncated json", `{"menu": {"breakfast": "eggs"`},
		{"null menu", `{"menu": null}`},
		{"empty menu", `{"menu": {}}`},
		{"menu without meals", `{"menu": {"breakfast": null}}`},
		{"empty sections", `{"exercise": {}, "insights": [], "recommendations": null}`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, format := service.FormatReply(tt.reply)
			assert.Equal(t, models.FormatRaw, format)
			assert.Equal(t, tt.reply, text)
		})
	}
}

func TestParseReportPartial(t *testing.T) {
	report, ok := service.ParseReport(`{"exercise": {"yoga": "15 minutes"}, "extra": 1}`)
	require.True(t, ok)
	assert.Nil(t, report.Menu)
	assert.Nil(t, report.Insights)
	require.NotNil(t, report.Exercise)
	require.Len(t, *report.Exercise, 1)
	assert.Equal(t, "yoga", (*report.Exercise)[0].Key)

	text := report.Format()
	assert.True(t, strings.HasPrefix(text, strings.Repeat("=", 60)+"\n💪 EXERCISE RECOMMENDATIONS"))
	assert.Contains(t, text, "\nYoga:\n15 minutes")
}

func TestParseReportSkipsEmptySections(t *testing.T) {
	report, ok := service.ParseReport(`{"menu": {}, "insights": ["Sleep more"]}`)
	require.True(t, ok)
	assert.Nil(t, report.Menu)

	text := report.Format()
	assert.NotContains(t, text, "DAILY MENU PLAN")
	assert.Contains(t, text, "\n1. Sleep more")
}
