package llm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeImageDataURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 0x50, 0x4e, 0x47}, os.ModePerm))

	dataURL, err := EncodeImageDataURL(path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))
	assert.Equal(t, "data:image/png;base64,iVBORw==", dataURL)
}

func TestEncodeImageDataURLMissingFile(t *testing.T) {
	_, err := EncodeImageDataURL(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestDetectMediaType(t *testing.T) {
	tests := map[string]string{
		"frame.png":   "image/png",
		"frame.PNG":   "image/png",
		"anim.gif":    "image/gif",
		"shot.webp":   "image/webp",
		"frame.jpg":   "image/jpeg",
		"frame.jpeg":  "image/jpeg",
		"no-ext-file": "image/jpeg",
	}

	for path, expected := range tests {
		assert.Equal(t, expected, DetectMediaType(path), "path: %s", path)
	}
}

func TestJSONSchemaFormat(t *testing.T) {
	format := JSONSchemaFormat("movement_profile", "desc", map[string]interface{}{"type": "object"})

	require.NotNil(t, format)
	require.NotNil(t, format.OfJSONSchema)
	assert.Equal(t, "movement_profile", format.OfJSONSchema.JSONSchema.Name)
}
