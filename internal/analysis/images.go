package analysis

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"formcoach-backend/internal/llm"
	"formcoach-backend/internal/storage"
)

// Synthesizer produces the reference and comparison illustrations for a
// movement. When a mirror is configured, generated images are copied into
// the object store since provider URLs expire.
type Synthesizer struct {
	images llm.ImageGenerator
	mirror *ImageMirror
}

func NewSynthesizer(images llm.ImageGenerator, mirror *ImageMirror) *Synthesizer {
	return &Synthesizer{images: images, mirror: mirror}
}

// ReferenceImage returns a URL for an ideal-form illustration, or the
// placeholder URL and ok=false when generation fails.
func (s *Synthesizer) ReferenceImage(ctx context.Context, movement string) (string, bool) {
	return s.generate(ctx, movement, referenceImagePromptTmpl, "reference")
}

// ComparisonImage returns a URL for a two-panel ideal-vs-incorrect
// illustration, or the placeholder URL and ok=false when generation fails.
func (s *Synthesizer) ComparisonImage(ctx context.Context, movement string) (string, bool) {
	return s.generate(ctx, movement, comparisonImagePromptTmpl, "comparison")
}

func (s *Synthesizer) generate(ctx context.Context, movement string, tmpl *template.Template, kind string) (string, bool) {
	var prompt strings.Builder
	if err := tmpl.Execute(&prompt, imagePromptFields{Movement: movement}); err != nil {
		slog.Error("error rendering image prompt", "kind", kind, "movement", movement, "error", err)
		return PlaceholderImageURL, false
	}

	url, err := s.images.GenerateImage(ctx, prompt.String())
	if err != nil {
		slog.Warn("image synthesis failed, using placeholder", "kind", kind, "movement", movement, "error", err)
		return PlaceholderImageURL, false
	}

	if s.mirror != nil {
		if mirrored, err := s.mirror.Mirror(ctx, url, kind); err != nil {
			slog.Warn("failed to mirror generated image, returning provider url", "kind", kind, "error", err)
		} else {
			url = mirrored
		}
	}

	return url, true
}

// ImageMirror copies a generated image from its ephemeral provider URL into
// the object store and returns the stored key as an addressable URL.
type ImageMirror struct {
	http  *resty.Client
	store storage.ObjectStore
}

func NewImageMirror(store storage.ObjectStore) *ImageMirror {
	return &ImageMirror{
		http:  resty.New().SetTimeout(30 * time.Second),
		store: store,
	}
}

func (m *ImageMirror) Mirror(ctx context.Context, url, kind string) (string, error) {
	res, err := m.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download generated image: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("failed to download generated image: status %d", res.StatusCode())
	}

	key := fmt.Sprintf("images/%s/%s.png", kind, uuid.New())
	if err := m.store.PutObject(ctx, key, bytes.NewReader(res.Body())); err != nil {
		return "", fmt.Errorf("failed to store mirrored image: %w", err)
	}

	return key, nil
}
