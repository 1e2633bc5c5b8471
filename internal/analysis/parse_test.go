package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formcoach-backend/pkg/api"
)

func TestParseMovementProfile(t *testing.T) {
	text := `This is a Barbell Back Squat.

Key technique points:
- Keep your chest up and core braced
- Drive through your heels
- Hit depth with thighs parallel to the floor

Common errors:
1. Knees caving inward
2. Heels lifting off the floor
`

	profile := parseMovementProfile(text)

	assert.Equal(t, "Barbell Back Squat", profile.Movement)
	assert.Equal(t, []string{
		"Keep your chest up and core braced",
		"Drive through your heels",
		"Hit depth with thighs parallel to the floor",
	}, profile.KeyPoints)
	assert.Equal(t, []string{
		"Knees caving inward",
		"Heels lifting off the floor",
	}, profile.CommonErrors)
}

func TestParseMovementProfileLeadIns(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"This is a deadlift.", "deadlift"},
		{"This is an overhead press", "overhead press"},
		{"Movement: Romanian Deadlift", "Romanian Deadlift"},
		{"Exercise: Pull-Up", "Pull-Up"},
		{"The movement is a lunge.", "a lunge"},
		{"Bench Press", "Bench Press"},
	}

	for _, tc := range tests {
		profile := parseMovementProfile(tc.text)
		assert.Equal(t, tc.expected, profile.Movement, "input: %q", tc.text)
	}
}

func TestParseMovementProfileNoSections(t *testing.T) {
	profile := parseMovementProfile("Kettlebell Swing")

	assert.Equal(t, "Kettlebell Swing", profile.Movement)
	assert.Empty(t, profile.KeyPoints)
	assert.Empty(t, profile.CommonErrors)
}

func TestParseFormAssessment(t *testing.T) {
	text := `Feedback:
- Good depth at the bottom position
- Your back stays neutral throughout

Corrections:
- Knees caving in: Push your knees out over your toes
- Bar drifting forward: Keep the bar over your midfoot

Score: 8/10`

	assessment := parseFormAssessment(text)

	assert.Equal(t, []string{
		"Good depth at the bottom position",
		"Your back stays neutral throughout",
	}, assessment.Feedback)
	require.Len(t, assessment.CorrectionPoints, 2)
	assert.Equal(t, api.CorrectionPoint{
		Issue:      "Knees caving in",
		Correction: "Push your knees out over your toes",
	}, assessment.CorrectionPoints[0])
	assert.Equal(t, api.CorrectionPoint{
		Issue:      "Bar drifting forward",
		Correction: "Keep the bar over your midfoot",
	}, assessment.CorrectionPoints[1])
	assert.Equal(t, 8.0, assessment.Score)
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		text     string
		expected float64
	}{
		{"Score: 8/10", 8},
		{"Overall score is 6.5 out of 10", 6.5},
		{"score - 9", 9},
		{"Score: 15/10", 10},
		{"no score anywhere", DefaultScore},
		{"", DefaultScore},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, parseScore(tc.text), "input: %q", tc.text)
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(-3))
	assert.Equal(t, 10.0, clampScore(12.5))
	assert.Equal(t, 7.2, clampScore(7.2))
}

func TestDecodeMovementProfileJSON(t *testing.T) {
	text := `{"movement": "Front Squat", "keyPoints": ["Elbows high"], "commonErrors": ["Dropping the elbows"]}`

	profile, ok := decodeMovementProfile(text)

	require.True(t, ok)
	assert.Equal(t, "Front Squat", profile.Movement)
	assert.Equal(t, []string{"Elbows high"}, profile.KeyPoints)
	assert.Equal(t, []string{"Dropping the elbows"}, profile.CommonErrors)
}

func TestDecodeMovementProfileUnusable(t *testing.T) {
	_, ok := decodeMovementProfile("   \n\n  ")
	assert.False(t, ok)

	_, ok = decodeMovementProfile(`{"movement": "  "}`)
	assert.False(t, ok)
}

func TestDecodeFormAssessmentJSON(t *testing.T) {
	text := `{"feedback": ["Solid setup"], "correctionPoints": [{"issue": "Grip too wide", "correction": "Bring your hands in"}], "score": 15}`

	assessment, ok := decodeFormAssessment(text)

	require.True(t, ok)
	assert.Equal(t, []string{"Solid setup"}, assessment.Feedback)
	require.Len(t, assessment.CorrectionPoints, 1)
	assert.Equal(t, 10.0, assessment.Score, "out of range scores are clamped")
}

func TestDecodeFormAssessmentFallsBackToText(t *testing.T) {
	text := `Feedback:
- Keep your gaze forward

Score: 5/10`

	assessment, ok := decodeFormAssessment(text)

	require.True(t, ok)
	assert.Equal(t, []string{"Keep your gaze forward"}, assessment.Feedback)
	assert.Equal(t, 5.0, assessment.Score)
}

func TestDecodeFormAssessmentUnusable(t *testing.T) {
	_, ok := decodeFormAssessment("nothing useful here")
	assert.False(t, ok)
}
