package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"formcoach-backend/internal/generation"
	"formcoach-backend/pkg/api"
)

// GenerationService exposes the coaching content generators. Provider
// failures map to 502 since the upstream model, not this service, failed.
type GenerationService struct {
	generator *generation.Generator
}

func NewGenerationService(generator *generation.Generator) *GenerationService {
	return &GenerationService{generator: generator}
}

func (s *GenerationService) AddRoutes(r chi.Router) {
	r.Route("/api/generation", func(r chi.Router) {
		r.Post("/workout-plan", RestHandler(s.GenerateWorkoutPlan))
		r.Post("/meal-plan", RestHandler(s.GenerateMealPlan))
		r.Post("/content", RestHandler(s.GenerateContent))
	})
}

func (s *GenerationService) GenerateWorkoutPlan(r *http.Request) (any, error) {
	req, err := ParseRequest[api.WorkoutPlanRequest](r)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Goal) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "goal is required")
	}
	if req.DaysPerWeek < 1 || req.DaysPerWeek > 7 {
		return nil, CodedErrorf(http.StatusBadRequest, "days_per_week must be between 1 and 7")
	}

	plan, err := s.generator.WorkoutPlan(r.Context(), req)
	if err != nil {
		return nil, CodedError(http.StatusBadGateway, err)
	}
	return plan, nil
}

func (s *GenerationService) GenerateMealPlan(r *http.Request) (any, error) {
	req, err := ParseRequest[api.MealPlanRequest](r)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Goal) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "goal is required")
	}
	if req.Calories <= 0 {
		return nil, CodedErrorf(http.StatusBadRequest, "calories must be positive")
	}

	plan, err := s.generator.MealPlan(r.Context(), req)
	if err != nil {
		return nil, CodedError(http.StatusBadGateway, err)
	}
	return plan, nil
}

func (s *GenerationService) GenerateContent(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ContentRequest](r)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Topic) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "topic is required")
	}

	content, err := s.generator.CoachingContent(r.Context(), req)
	if err != nil {
		return nil, CodedError(http.StatusBadGateway, err)
	}
	return content, nil
}
