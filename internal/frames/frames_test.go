package frames

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("media bytes"), os.ModePerm))
	return path
}

func TestExtractImagePassthrough(t *testing.T) {
	photo := writeTempFile(t, "pushup.jpg")
	extractor := NewExtractor("ffmpeg", "")

	set, err := extractor.Extract(context.Background(), photo, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, photo, set.Representative)
	assert.Equal(t, photo, set.Analysis)
	assert.Empty(t, set.Dir)
	assert.False(t, set.FromDemo)
}

func TestExtractVideoFallsBackToDemo(t *testing.T) {
	video := writeTempFile(t, "squat.mp4")
	demo := writeTempFile(t, "demo.jpg")
	extractor := NewExtractor("/nonexistent/ffmpeg", demo)

	set, err := extractor.Extract(context.Background(), video, "video/mp4")
	require.NoError(t, err)

	assert.True(t, set.FromDemo)
	assert.Equal(t, demo, set.Representative)
	assert.Equal(t, demo, set.Analysis)
}

func TestExtractVideoNoDemoAsset(t *testing.T) {
	video := writeTempFile(t, "squat.mp4")
	extractor := NewExtractor("/nonexistent/ffmpeg", "")

	_, err := extractor.Extract(context.Background(), video, "video/mp4")
	assert.Error(t, err)
}

func TestDemoSetMissingAsset(t *testing.T) {
	extractor := NewExtractor("ffmpeg", filepath.Join(t.TempDir(), "missing.jpg"))

	_, err := extractor.DemoSet()
	assert.Error(t, err)
}

func TestListFrames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"frame_0002.jpg", "frame_0001.jpg", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), os.ModePerm))
	}

	paths, err := listFrames(dir)
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "frame_0001.jpg"), paths[0])
	assert.Equal(t, filepath.Join(dir, "frame_0002.jpg"), paths[1])
}
