package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	"formcoach-backend/internal/llm"
	"formcoach-backend/pkg/api"
)

var workoutPlanFormat = llm.JSONSchemaFormat(
	"workout_plan",
	"A weekly workout program with per-day focus and exercises",
	map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name":  map[string]interface{}{"type": "string"},
			"weeks": map[string]interface{}{"type": "integer"},
			"days": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"focus": map[string]interface{}{"type": "string"},
						"exercises": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"name":  map[string]interface{}{"type": "string"},
									"sets":  map[string]interface{}{"type": "integer"},
									"reps":  map[string]interface{}{"type": "string"},
									"notes": map[string]interface{}{"type": "string"},
								},
								"required":             []string{"name", "sets", "reps"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []string{"focus", "exercises"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"name", "weeks", "days"},
		"additionalProperties": false,
	},
)

var mealPlanFormat = llm.JSONSchemaFormat(
	"meal_plan",
	"A daily meal plan with per-meal items and macros",
	map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"calories": map[string]interface{}{"type": "integer"},
			"meals": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name":  map[string]interface{}{"type": "string"},
						"items": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
						"macros": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"protein_grams": map[string]interface{}{"type": "integer"},
								"carb_grams":    map[string]interface{}{"type": "integer"},
								"fat_grams":     map[string]interface{}{"type": "integer"},
							},
							"required":             []string{"protein_grams", "carb_grams", "fat_grams"},
							"additionalProperties": false,
						},
					},
					"required":             []string{"name", "items", "macros"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"calories", "meals"},
		"additionalProperties": false,
	},
)

var coachingContentFormat = llm.JSONSchemaFormat(
	"coaching_content",
	"A titled piece of coaching content",
	map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{"type": "string"},
			"body":  map[string]interface{}{"type": "string"},
			"tone":  map[string]interface{}{"type": "string"},
		},
		"required":             []string{"title", "body", "tone"},
		"additionalProperties": false,
	},
)

// Generator produces structured coaching material. Unlike the analysis
// pipeline there is no fallback content here: a provider or parse failure
// surfaces as an error for the caller to map.
type Generator struct {
	chat llm.ChatCompleter
}

func NewGenerator(chat llm.ChatCompleter) *Generator {
	return &Generator{chat: chat}
}

func (g *Generator) WorkoutPlan(ctx context.Context, req api.WorkoutPlanRequest) (api.WorkoutPlan, error) {
	var prompt strings.Builder
	fields := workoutPromptFields{
		Goal:            req.Goal,
		ExperienceLevel: req.ExperienceLevel,
		DaysPerWeek:     req.DaysPerWeek,
		Equipment:       strings.Join(req.Equipment, ", "),
	}
	if err := workoutPromptTmpl.Execute(&prompt, fields); err != nil {
		return api.WorkoutPlan{}, fmt.Errorf("failed to render workout prompt: %w", err)
	}

	var plan api.WorkoutPlan
	if err := g.generate(ctx, prompt.String(), workoutPlanFormat, &plan); err != nil {
		return api.WorkoutPlan{}, fmt.Errorf("failed to generate workout plan: %w", err)
	}
	if len(plan.Days) == 0 {
		return api.WorkoutPlan{}, fmt.Errorf("generated workout plan has no training days")
	}
	return plan, nil
}

func (g *Generator) MealPlan(ctx context.Context, req api.MealPlanRequest) (api.MealPlan, error) {
	var prompt strings.Builder
	fields := mealPromptFields{
		Goal:         req.Goal,
		Calories:     req.Calories,
		Restrictions: strings.Join(req.Restrictions, ", "),
	}
	if err := mealPromptTmpl.Execute(&prompt, fields); err != nil {
		return api.MealPlan{}, fmt.Errorf("failed to render meal plan prompt: %w", err)
	}

	var plan api.MealPlan
	if err := g.generate(ctx, prompt.String(), mealPlanFormat, &plan); err != nil {
		return api.MealPlan{}, fmt.Errorf("failed to generate meal plan: %w", err)
	}
	if len(plan.Meals) == 0 {
		return api.MealPlan{}, fmt.Errorf("generated meal plan has no meals")
	}
	return plan, nil
}

func (g *Generator) CoachingContent(ctx context.Context, req api.ContentRequest) (api.CoachingContent, error) {
	var prompt strings.Builder
	fields := contentPromptFields{
		Topic:    req.Topic,
		Audience: req.Audience,
		Tone:     req.Tone,
	}
	if err := contentPromptTmpl.Execute(&prompt, fields); err != nil {
		return api.CoachingContent{}, fmt.Errorf("failed to render content prompt: %w", err)
	}

	var content api.CoachingContent
	if err := g.generate(ctx, prompt.String(), coachingContentFormat, &content); err != nil {
		return api.CoachingContent{}, fmt.Errorf("failed to generate coaching content: %w", err)
	}
	if content.Body == "" {
		return api.CoachingContent{}, fmt.Errorf("generated coaching content has no body")
	}
	return content, nil
}

func (g *Generator) generate(ctx context.Context, prompt string, format *openai.ChatCompletionNewParamsResponseFormatUnion, out interface{}) error {
	text, err := g.chat.Complete(ctx, llm.ChatRequest{
		SystemPrompt:   generationSystemPrompt,
		Prompt:         prompt,
		ResponseFormat: format,
		Temperature:    0.7,
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("model response is not valid JSON: %w", err)
	}
	return nil
}
