package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formcoach-backend/internal/generation"
	"formcoach-backend/internal/llm"
	"formcoach-backend/pkg/api"
)

type cannedChat struct {
	response string
	err      error
}

func (c cannedChat) Complete(ctx context.Context, req llm.ChatRequest) (string, error) {
	return c.response, c.err
}

func newGenerationRouter(chat llm.ChatCompleter) chi.Router {
	router := chi.NewRouter()
	NewGenerationService(generation.NewGenerator(chat)).AddRoutes(router)
	return router
}

func postJSON(t *testing.T, router chi.Router, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateWorkoutPlan(t *testing.T) {
	router := newGenerationRouter(cannedChat{response: `{
		"name": "Strength Base",
		"weeks": 4,
		"days": [
			{"focus": "Lower body", "exercises": [{"name": "Back Squat", "sets": 5, "reps": "5"}]},
			{"focus": "Upper body", "exercises": [{"name": "Bench Press", "sets": 5, "reps": "5"}]}
		]
	}`})

	rec := postJSON(t, router, "/api/generation/workout-plan", api.WorkoutPlanRequest{
		Goal:            "build strength",
		ExperienceLevel: "intermediate",
		DaysPerWeek:     2,
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var plan api.WorkoutPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, "Strength Base", plan.Name)
	require.Len(t, plan.Days, 2)
	assert.Equal(t, "Back Squat", plan.Days[0].Exercises[0].Name)
}

func TestGenerateWorkoutPlanValidation(t *testing.T) {
	router := newGenerationRouter(cannedChat{response: `{}`})

	rec := postJSON(t, router, "/api/generation/workout-plan", api.WorkoutPlanRequest{DaysPerWeek: 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing goal")

	rec = postJSON(t, router, "/api/generation/workout-plan", api.WorkoutPlanRequest{Goal: "strength", DaysPerWeek: 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "days out of range")
}

func TestGenerateWorkoutPlanUpstreamGarbage(t *testing.T) {
	router := newGenerationRouter(cannedChat{response: "sorry, I cannot help with that"})

	rec := postJSON(t, router, "/api/generation/workout-plan", api.WorkoutPlanRequest{
		Goal:        "build strength",
		DaysPerWeek: 3,
	})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGenerateMealPlan(t *testing.T) {
	router := newGenerationRouter(cannedChat{response: `{
		"calories": 2200,
		"meals": [
			{"name": "Breakfast", "items": ["oats", "eggs"], "macros": {"protein_grams": 35, "carb_grams": 60, "fat_grams": 18}}
		]
	}`})

	rec := postJSON(t, router, "/api/generation/meal-plan", api.MealPlanRequest{Goal: "cut", Calories: 2200})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var plan api.MealPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, 2200, plan.Calories)
	require.Len(t, plan.Meals, 1)
	assert.Equal(t, 35, plan.Meals[0].Macros.ProteinGrams)
}

func TestGenerateMealPlanValidation(t *testing.T) {
	router := newGenerationRouter(cannedChat{response: `{}`})

	rec := postJSON(t, router, "/api/generation/meal-plan", api.MealPlanRequest{Goal: "cut"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing calories")
}

func TestGenerateContent(t *testing.T) {
	router := newGenerationRouter(cannedChat{response: `{
		"title": "Why Your Squat Stalls",
		"body": "Most squat plateaus come down to volume, recovery, or bracing.",
		"tone": "practical"
	}`})

	rec := postJSON(t, router, "/api/generation/content", api.ContentRequest{
		Topic:    "squat plateaus",
		Audience: "intermediate lifters",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var content api.CoachingContent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &content))
	assert.Equal(t, "Why Your Squat Stalls", content.Title)
	assert.NotEmpty(t, content.Body)
}

func TestGenerateContentValidation(t *testing.T) {
	router := newGenerationRouter(cannedChat{response: `{}`})

	rec := postJSON(t, router, "/api/generation/content", api.ContentRequest{Audience: "beginners"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing topic")
}
