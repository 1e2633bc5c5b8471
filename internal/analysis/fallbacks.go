package analysis

import "formcoach-backend/pkg/api"

// Pipeline stage names reported in AnalysisResult.Degraded when a stage
// substituted fallback values for genuine analysis.
const (
	StageFrameExtraction = "frame_extraction"
	StageIdentify        = "movement_identification"
	StageReference       = "reference_image"
	StageAnalyze         = "form_analysis"
	StageCompare         = "comparison_image"
)

const (
	// FallbackMovement is returned when the movement cannot be identified.
	FallbackMovement = "Unidentified Movement"

	// DefaultScore is used when no score can be parsed from the analysis
	// response.
	DefaultScore = 7.0

	// PlaceholderImageURL stands in for a synthesized illustration when
	// image generation fails.
	PlaceholderImageURL = "https://static.formcoach.app/placeholders/form-illustration.png"
)

func fallbackProfile() api.MovementProfile {
	return api.MovementProfile{
		Movement: FallbackMovement,
		KeyPoints: []string{
			"Keep a neutral spine and braced core throughout the movement",
			"Control the tempo on both the lowering and lifting phases",
		},
		CommonErrors: []string{
			"Rushing through repetitions instead of moving with control",
			"Holding your breath rather than breathing with each rep",
		},
	}
}

func fallbackAssessment() api.FormAssessment {
	return api.FormAssessment{
		Feedback: []string{
			"We could not complete a detailed analysis of this frame",
			"Focus on controlled movement and a stable, braced torso",
			"Record from a side angle with your full body in frame for best results",
		},
		CorrectionPoints: []api.CorrectionPoint{
			{Issue: "Analysis unavailable", Correction: "Try uploading a clearer, well-lit video"},
		},
		Score: DefaultScore,
	}
}
