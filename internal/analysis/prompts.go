package analysis

import "text/template"

const identifySystemPrompt = `You are an expert strength and conditioning coach. You will be shown a single frame from a client's training video. Identify the exercise being performed.

Respond with:
- The movement name on the first line.
- A section titled "Key technique points:" with 3-5 bullet points describing correct execution.
- A section titled "Common errors:" with 3-5 bullet points describing mistakes people typically make.

Do not include any other sections.`

const identifyUserPrompt = `Identify the exercise in this frame and list its key technique points and common errors.`

const analyzeUserPrompt = `Evaluate the technique shown in this frame.`

type analyzePromptFields struct {
	Movement string
}

const analyzeSystemPrompt = `You are an expert coach reviewing a client performing the {{ .Movement }}. You will be shown one frame from their training video.

Respond with:
- A section titled "Feedback:" with 3-5 bullet points on what you observe about their form.
- A section titled "Corrections:" where each line has the form "issue: correction".
- A line "Score: N/10" rating the overall technique, where N is a number between 0 and 10.

Be direct and specific. Do not include any other sections.`

var analyzeSystemPromptTmpl = template.Must(template.New("analyzeSystemPrompt").Parse(analyzeSystemPrompt))

type imagePromptFields struct {
	Movement string
}

const referenceImagePrompt = `A clean instructional illustration of a person demonstrating perfect {{ .Movement }} form, blueprint style, transparent background, clear joint angles, side view, minimal annotation lines marking posture alignment.`

var referenceImagePromptTmpl = template.Must(template.New("referenceImagePrompt").Parse(referenceImagePrompt))

const comparisonImagePrompt = `A two-panel instructional comparison illustration of the {{ .Movement }} exercise: left panel shows ideal form with correct posture and alignment, right panel shows a common incorrect form with the fault highlighted, blueprint style, side view, matching framing in both panels.`

var comparisonImagePromptTmpl = template.Must(template.New("comparisonImagePrompt").Parse(comparisonImagePrompt))
