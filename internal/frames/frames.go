package frames

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Set holds the still frames chosen for one analysis run. Representative is
// shown to the movement identifier, Analysis to the form analyzer. FromDemo
// is set when extraction fell back to the bundled demo asset instead of the
// uploaded artifact.
type Set struct {
	Representative string
	Analysis       string
	Dir            string
	FromDemo       bool
}

// Cleanup removes the temp directory holding extracted frames, if any.
func (s Set) Cleanup() {
	if s.Dir != "" {
		os.RemoveAll(s.Dir)
	}
}

// Extractor pulls still frames out of uploaded media. Videos go through
// ffmpeg; images pass through unchanged. When extraction is not possible
// and a demo asset is configured, the demo asset substitutes for both
// frames and the set is marked FromDemo.
type Extractor struct {
	FFmpegPath string
	DemoAsset  string
	MaxFrames  int
}

func NewExtractor(ffmpegPath, demoAsset string) *Extractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Extractor{FFmpegPath: ffmpegPath, DemoAsset: demoAsset, MaxFrames: 9}
}

// Extract returns the frame set for a media file. mimeType decides whether
// the file is treated as an image or a video.
func (e *Extractor) Extract(ctx context.Context, mediaPath, mimeType string) (Set, error) {
	if strings.HasPrefix(mimeType, "image/") {
		return Set{Representative: mediaPath, Analysis: mediaPath}, nil
	}

	set, err := e.extractVideoFrames(ctx, mediaPath)
	if err != nil {
		slog.Warn("frame extraction failed, falling back to demo asset", "path", mediaPath, "error", err)
		return e.DemoSet()
	}
	return set, nil
}

// DemoSet builds a frame set from the bundled demo asset.
func (e *Extractor) DemoSet() (Set, error) {
	if e.DemoAsset == "" {
		return Set{}, fmt.Errorf("no demo asset configured")
	}
	if _, err := os.Stat(e.DemoAsset); err != nil {
		return Set{}, fmt.Errorf("demo asset unavailable at %s: %w", e.DemoAsset, err)
	}
	return Set{Representative: e.DemoAsset, Analysis: e.DemoAsset, FromDemo: true}, nil
}

func (e *Extractor) extractVideoFrames(ctx context.Context, videoPath string) (Set, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return Set{}, fmt.Errorf("video file does not exist at path '%s': %w", videoPath, err)
	}

	frameDir, err := os.MkdirTemp("", "frames-*")
	if err != nil {
		return Set{}, fmt.Errorf("failed to create frame directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.FFmpegPath,
		"-i", videoPath,
		"-vf", "fps=1",
		"-frames:v", fmt.Sprintf("%d", e.MaxFrames),
		filepath.Join(frameDir, "frame_%04d.jpg"),
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(frameDir)
		return Set{}, fmt.Errorf("ffmpeg failed: %w: %s", err, string(out))
	}

	paths, err := listFrames(frameDir)
	if err != nil {
		os.RemoveAll(frameDir)
		return Set{}, err
	}
	if len(paths) == 0 {
		os.RemoveAll(frameDir)
		return Set{}, fmt.Errorf("ffmpeg produced no frames for %s", videoPath)
	}

	// First frame shows the setup position, the middle frame is most likely
	// to catch the movement mid-rep.
	return Set{
		Representative: paths[0],
		Analysis:       paths[len(paths)/2],
		Dir:            frameDir,
	}, nil
}

func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory '%s': %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".jpg") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
