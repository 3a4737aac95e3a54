package service

import (
	"strconv"
	"strings"

	"github.com/pageza/healthdiary/backend/internal/models"
)

// ContextEntries is how many recent diary entries go into a prompt.
const ContextEntries = 7

const recommendationInstructions = `Based on this health data, please provide:
1. Daily menu recommendations (breakfast, lunch, dinner, snacks)
2. Physical activity suggestions
3. Health insights and patterns you notice
4. Specific recommendations to address recurring health issues

Format the response in JSON with these keys: menu, exercise, insights, recommendations`

// BuildPrompt renders the profile and diary entries into the generator
// prompt. Output depends only on its inputs.
func BuildPrompt(profile *models.UserProfile, entries []models.DiaryEntry) string {
	var sb strings.Builder

	sb.WriteString("User Profile:\n")
	sb.WriteString("- Age: " + strconv.Itoa(profile.Age) + "\n")
	sb.WriteString("- Gender: " + profile.Gender + "\n")
	sb.WriteString("- Weight: " + measurement(profile.Weight, "kg") + "\n")
	sb.WriteString("- Height: " + measurement(profile.Height, "cm") + "\n")
	sb.WriteString("- Allergies: " + joinList(profile.Allergies) + "\n")
	sb.WriteString("- Medical Conditions: " + joinList(profile.MedicalConditions) + "\n")

	sb.WriteString("\nRecent Health Data (Last 7 days):\n")
	for _, entry := range entries {
		sb.WriteString("\nDate: " + entry.Date + "\n")
		sb.WriteString("Meals: " + joinList(entry.Meals) + "\n")
		sb.WriteString("Health Conditions:\n")
		for _, c := range entry.Conditions {
			sb.WriteString("  - " + c.Condition + " (Severity: " + strconv.Itoa(c.Severity) + "/10)\n")
		}
		sb.WriteString("Activities: " + joinList(entry.Activities) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(recommendationInstructions)
	return sb.String()
}

func measurement(v *float64, unit string) string {
	if v == nil {
		return "not provided"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + " " + unit
}

func joinList(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
