package api

import (
	"time"

	"github.com/google/uuid"
)

// MovementProfile describes the exercise identified from a still frame.
type MovementProfile struct {
	Movement     string   `json:"movement"`
	KeyPoints    []string `json:"keyPoints"`
	CommonErrors []string `json:"commonErrors"`
}

type CorrectionPoint struct {
	Issue      string `json:"issue"`
	Correction string `json:"correction"`
}

// FormAssessment is the technique evaluation for one analysis frame.
// Score is always within [0, 10].
type FormAssessment struct {
	Feedback         []string          `json:"feedback"`
	CorrectionPoints []CorrectionPoint `json:"correctionPoints"`
	Score            float64           `json:"score"`
}

// AnalysisResult is the aggregate returned for one pipeline run. Degraded
// lists the stage names that produced fallback values instead of genuine
// analysis, so callers can flag substituted content.
type AnalysisResult struct {
	MovementProfile
	FormAssessment
	ReferenceImageURL  string   `json:"referenceImageUrl"`
	ComparisonImageURL string   `json:"comparisonImageUrl"`
	Degraded           []string `json:"degraded,omitempty"`
	Demo               bool     `json:"demo,omitempty"`
}

const (
	JobQueued    = "QUEUED"
	JobRunning   = "RUNNING"
	JobCompleted = "COMPLETED"
	JobFailed    = "FAILED"
)

// AnalysisJob is the stored state of an asynchronous analysis run.
type AnalysisJob struct {
	JobId        uuid.UUID       `json:"job_id"`
	Status       string          `json:"status"`
	Error        string          `json:"error,omitempty"`
	Result       *AnalysisResult `json:"result,omitempty"`
	CreationTime time.Time       `json:"creation_time"`
	UpdateTime   time.Time       `json:"update_time"`
}

type SubmitJobResponse struct {
	JobId uuid.UUID `json:"job_id"`
}

type ListJobsParams struct {
	Limit int `schema:"limit"`
}

type ListJobsResponse struct {
	Jobs []AnalysisJob `json:"jobs"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type WorkoutPlanRequest struct {
	Goal            string   `json:"goal"`
	ExperienceLevel string   `json:"experience_level"`
	DaysPerWeek     int      `json:"days_per_week"`
	Equipment       []string `json:"equipment,omitempty"`
}

type Exercise struct {
	Name  string `json:"name"`
	Sets  int    `json:"sets"`
	Reps  string `json:"reps"`
	Notes string `json:"notes,omitempty"`
}

type WorkoutDay struct {
	Focus     string     `json:"focus"`
	Exercises []Exercise `json:"exercises"`
}

type WorkoutPlan struct {
	Name  string       `json:"name"`
	Weeks int          `json:"weeks"`
	Days  []WorkoutDay `json:"days"`
}

type MealPlanRequest struct {
	Goal         string   `json:"goal"`
	Calories     int      `json:"calories"`
	Restrictions []string `json:"restrictions,omitempty"`
}

type Macros struct {
	ProteinGrams int `json:"protein_grams"`
	CarbGrams    int `json:"carb_grams"`
	FatGrams     int `json:"fat_grams"`
}

type Meal struct {
	Name   string   `json:"name"`
	Items  []string `json:"items"`
	Macros Macros   `json:"macros"`
}

type MealPlan struct {
	Calories int    `json:"calories"`
	Meals    []Meal `json:"meals"`
}

type ContentRequest struct {
	Topic    string `json:"topic"`
	Audience string `json:"audience"`
	Tone     string `json:"tone,omitempty"`
}

type CoachingContent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tone  string `json:"tone"`
}
