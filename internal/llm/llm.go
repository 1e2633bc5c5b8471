package llm

import (
	"context"

	"github.com/openai/openai-go"
)

// ChatRequest is a single completion request. ImagePath, when set, is read
// and attached to the user message as a base64 data URL content part.
// ResponseFormat, when non-nil, asks the provider for schema-constrained
// JSON output.
type ChatRequest struct {
	SystemPrompt   string
	Prompt         string
	ImagePath      string
	ResponseFormat *openai.ChatCompletionNewParamsResponseFormatUnion
	Temperature    float64
}

// ChatCompleter is the completion capability consumed by the analysis and
// generation packages. Implementations are injected so tests can substitute
// fakes.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// ImageGenerator produces an illustration URL from a text prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// JSONSchemaFormat builds a response format union for a named JSON schema.
func JSONSchemaFormat(name, description string, schema map[string]interface{}) *openai.ChatCompletionNewParamsResponseFormatUnion {
	return &openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        name,
				Description: openai.String(description),
				Schema:      schema,
			},
		},
	}
}
