package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"formcoach-backend/pkg/api"
)

// Heuristic parsers for free-form model output. These are the fallback when
// the provider ignores or does not support the JSON-schema response format;
// the expected text layout is pinned down by the prompts in prompts.go.

var (
	movementLeadIns = []string{
		"this is a ",
		"this is an ",
		"this is ",
		"movement:",
		"exercise:",
		"the movement is ",
		"the exercise is ",
	}

	bulletPrefix  = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
	headingLine   = regexp.MustCompile(`(?i)^\s*[a-z][a-z /]{2,40}:\s*$`)
	scorePattern  = regexp.MustCompile(`(?i)score[^0-9]{0,20}(\d+(?:\.\d+)?)`)
	keyPointsHead = regexp.MustCompile(`(?i)key technique points:`)
	errorsHead    = regexp.MustCompile(`(?i)common errors:`)
	feedbackHead  = regexp.MustCompile(`(?i)feedback:`)
)

// parseMovementProfile extracts a movement profile from free text. The
// movement is the first non-empty line with lead-in phrases stripped; the
// technique and error lists come from their labeled sections.
func parseMovementProfile(text string) api.MovementProfile {
	profile := api.MovementProfile{
		Movement:     firstLine(text),
		KeyPoints:    sectionItems(text, keyPointsHead, errorsHead),
		CommonErrors: sectionItems(text, errorsHead, nil),
	}

	for _, lead := range movementLeadIns {
		if len(profile.Movement) >= len(lead) && strings.EqualFold(profile.Movement[:len(lead)], lead) {
			profile.Movement = strings.TrimSpace(profile.Movement[len(lead):])
			break
		}
	}
	profile.Movement = strings.TrimRight(profile.Movement, ".")

	return profile
}

// parseFormAssessment extracts feedback lines, "issue: correction" pairs, and
// a clamped /10 score from free text.
func parseFormAssessment(text string) api.FormAssessment {
	assessment := api.FormAssessment{
		Feedback: sectionItems(text, feedbackHead, nil),
		Score:    parseScore(text),
	}

	for _, line := range strings.Split(text, "\n") {
		line = bulletPrefix.ReplaceAllString(strings.TrimSpace(line), "")
		issue, correction, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		issue = strings.TrimSpace(issue)
		correction = strings.TrimSpace(correction)
		if issue == "" || correction == "" {
			continue
		}
		// Skip section headings and the score line, which also contain a colon.
		lower := strings.ToLower(issue)
		if lower == "feedback" || lower == "corrections" || lower == "score" ||
			lower == "key technique points" || lower == "common errors" {
			continue
		}
		assessment.CorrectionPoints = append(assessment.CorrectionPoints, api.CorrectionPoint{
			Issue:      issue,
			Correction: correction,
		})
	}

	return assessment
}

func parseScore(text string) float64 {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultScore
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return DefaultScore
	}
	return clampScore(score)
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// sectionItems returns the cleaned lines between a section heading and the
// following heading (or end of text when next is nil and no heading-shaped
// line appears first).
func sectionItems(text string, head, next *regexp.Regexp) []string {
	loc := head.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	rest := text[loc[1]:]

	if next != nil {
		if end := next.FindStringIndex(rest); end != nil {
			rest = rest[:end[0]]
		}
	}

	var items []string
	for _, line := range strings.Split(rest, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if headingLine.MatchString(line) {
			break
		}
		line = bulletPrefix.ReplaceAllString(line, "")
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}
