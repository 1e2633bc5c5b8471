package analysis

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"formcoach-backend/internal/llm"
	"formcoach-backend/pkg/api"
)

var movementProfileFormat = llm.JSONSchemaFormat(
	"movement_profile",
	"The exercise identified in a training frame with technique points and common errors",
	map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"movement":     map[string]interface{}{"type": "string"},
			"keyPoints":    map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"commonErrors": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		},
		"required":             []string{"movement", "keyPoints", "commonErrors"},
		"additionalProperties": false,
	},
)

// Identifier determines which exercise a frame shows.
type Identifier struct {
	chat llm.ChatCompleter
}

func NewIdentifier(chat llm.ChatCompleter) *Identifier {
	return &Identifier{chat: chat}
}

// Identify never fails: any completion or parse error yields the fallback
// profile and ok=false so the orchestrator can mark the stage degraded.
// The movement in the returned profile is always non-empty.
func (i *Identifier) Identify(ctx context.Context, framePath string) (api.MovementProfile, bool) {
	text, err := i.chat.Complete(ctx, llm.ChatRequest{
		SystemPrompt:   identifySystemPrompt,
		Prompt:         identifyUserPrompt,
		ImagePath:      framePath,
		ResponseFormat: movementProfileFormat,
		Temperature:    0.2,
	})
	if err != nil {
		slog.Warn("movement identification failed, using fallback profile", "error", err)
		return fallbackProfile(), false
	}

	profile, ok := decodeMovementProfile(text)
	if !ok {
		slog.Warn("movement identification response unusable, using fallback profile")
		return fallbackProfile(), false
	}

	return profile, true
}

// decodeMovementProfile tries the structured-output contract first and falls
// back to the heuristic text parser.
func decodeMovementProfile(text string) (api.MovementProfile, bool) {
	var profile api.MovementProfile
	if err := json.Unmarshal([]byte(text), &profile); err == nil {
		if strings.TrimSpace(profile.Movement) != "" {
			profile.Movement = strings.TrimSpace(profile.Movement)
			return profile, true
		}
	}

	profile = parseMovementProfile(text)
	if profile.Movement == "" {
		return api.MovementProfile{}, false
	}
	return profile, true
}
