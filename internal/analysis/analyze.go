package analysis

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"formcoach-backend/internal/llm"
	"formcoach-backend/pkg/api"
)

var formAssessmentFormat = llm.JSONSchemaFormat(
	"form_assessment",
	"Technique feedback, corrections, and a 0-10 score for a training frame",
	map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"feedback": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"correctionPoints": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"issue":      map[string]interface{}{"type": "string"},
						"correction": map[string]interface{}{"type": "string"},
					},
					"required":             []string{"issue", "correction"},
					"additionalProperties": false,
				},
			},
			"score": map[string]interface{}{"type": "number"},
		},
		"required":             []string{"feedback", "correctionPoints", "score"},
		"additionalProperties": false,
	},
)

// Analyzer evaluates exercise technique in a frame for a known movement.
type Analyzer struct {
	chat llm.ChatCompleter
}

func NewAnalyzer(chat llm.ChatCompleter) *Analyzer {
	return &Analyzer{chat: chat}
}

// Assess never fails: any completion or parse error yields the fallback
// assessment and ok=false. The returned score is always within [0, 10].
func (a *Analyzer) Assess(ctx context.Context, movement, framePath string) (api.FormAssessment, bool) {
	var systemPrompt strings.Builder
	if err := analyzeSystemPromptTmpl.Execute(&systemPrompt, analyzePromptFields{Movement: movement}); err != nil {
		slog.Error("error rendering analysis prompt", "movement", movement, "error", err)
		return fallbackAssessment(), false
	}

	text, err := a.chat.Complete(ctx, llm.ChatRequest{
		SystemPrompt:   systemPrompt.String(),
		Prompt:         analyzeUserPrompt,
		ImagePath:      framePath,
		ResponseFormat: formAssessmentFormat,
		Temperature:    0.2,
	})
	if err != nil {
		slog.Warn("form analysis failed, using fallback assessment", "movement", movement, "error", err)
		return fallbackAssessment(), false
	}

	assessment, ok := decodeFormAssessment(text)
	if !ok {
		slog.Warn("form analysis response unusable, using fallback assessment", "movement", movement)
		return fallbackAssessment(), false
	}

	return assessment, true
}

func decodeFormAssessment(text string) (api.FormAssessment, bool) {
	var assessment api.FormAssessment
	if err := json.Unmarshal([]byte(text), &assessment); err == nil && len(assessment.Feedback) > 0 {
		assessment.Score = clampScore(assessment.Score)
		return assessment, true
	}

	assessment = parseFormAssessment(text)
	if len(assessment.Feedback) == 0 && len(assessment.CorrectionPoints) == 0 {
		return api.FormAssessment{}, false
	}
	return assessment, true
}
