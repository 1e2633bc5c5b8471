package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
)

const completionTimeout = 50 * time.Second

// OpenAIChat wraps the OpenAI chat completion endpoint, including multimodal
// requests with image content parts.
type OpenAIChat struct {
	client openai.Client
	model  string
}

func NewOpenAIChat(model string) *OpenAIChat {
	return &OpenAIChat{
		client: openai.NewClient(),
		model:  model,
	}
}

func (o *OpenAIChat) Complete(ctx context.Context, req ChatRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}

	if req.ImagePath != "" {
		dataURL, err := EncodeImageDataURL(req.ImagePath)
		if err != nil {
			return "", fmt.Errorf("failed to attach image %s: %w", req.ImagePath, err)
		}
		messages = append(messages, openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(req.Prompt),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
		}))
	} else {
		messages = append(messages, openai.UserMessage(req.Prompt))
	}

	chatReq := openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       o.model,
		Temperature: openai.Float(req.Temperature),
	}
	if req.ResponseFormat != nil {
		chatReq.ResponseFormat = *req.ResponseFormat
	}

	res, err := o.client.Chat.Completions.New(ctx, chatReq)
	if err != nil {
		slog.Error("openai error: chat completions failed", "model", o.model, "error", err)
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("openai completion returned no choices")
	}

	return res.Choices[0].Message.Content, nil
}

// OpenAIImages wraps the OpenAI image generation endpoint. Responses are
// URLs hosted by the provider; they expire and are not persisted here.
type OpenAIImages struct {
	client openai.Client
	model  openai.ImageModel
}

func NewOpenAIImages(model string) *OpenAIImages {
	if model == "" {
		model = openai.ImageModelDallE3
	}
	return &OpenAIImages{
		client: openai.NewClient(),
		model:  model,
	}
}

func (o *OpenAIImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	res, err := o.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  o.model,
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		slog.Error("openai error: image generation failed", "model", o.model, "error", err)
		return "", fmt.Errorf("openai image generation failed: %w", err)
	}
	if len(res.Data) == 0 || res.Data[0].URL == "" {
		return "", fmt.Errorf("openai image generation returned no url")
	}

	return res.Data[0].URL, nil
}

// EncodeImageDataURL reads an image file and returns it as a base64 data URL
// suitable for a chat completion image part.
func EncodeImageDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", DetectMediaType(path), encoded), nil
}

// DetectMediaType returns the image media type based on file extension.
func DetectMediaType(path string) string {
	lower := strings.ToLower(path)

	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
