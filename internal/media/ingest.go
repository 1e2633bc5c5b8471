package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"formcoach-backend/internal/storage"
)

// FormField is the multipart field clients upload media under. Images are
// accepted under the same field name as videos.
const FormField = "video"

const DefaultMaxUploadBytes = 200 << 20

var (
	ErrNoVideo              = errors.New("No video uploaded")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMediaTooLarge        = errors.New("uploaded media exceeds the size limit")
)

var allowedMediaTypes = map[string]bool{
	"video/mp4":        true,
	"video/quicktime":  true,
	"video/webm":       true,
	"video/x-msvideo":  true,
	"video/x-matroska": true,
	"image/jpeg":       true,
	"image/png":        true,
	"image/webp":       true,
}

// Artifact is an accepted upload, spooled to local disk for frame extraction
// and copied into the object store for the async workers.
type Artifact struct {
	Id        uuid.UUID
	Path      string
	ObjectKey string
	MimeType  string
	Size      int64
}

// Discard removes the local spool file. The object store copy is kept.
func (a Artifact) Discard() {
	if a.Path != "" {
		os.Remove(a.Path)
	}
}

// Ingestor validates multipart uploads and persists them.
type Ingestor struct {
	store    storage.ObjectStore
	maxBytes int64
}

func NewIngestor(store storage.ObjectStore, maxBytes int64) *Ingestor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Ingestor{store: store, maxBytes: maxBytes}
}

// Ingest pulls the media file out of a multipart request. It returns
// ErrNoVideo when the field is absent, ErrUnsupportedMediaType for types
// outside the allowlist, and ErrMediaTooLarge past the size limit.
func (ing *Ingestor) Ingest(ctx context.Context, r *http.Request) (Artifact, error) {
	file, header, err := r.FormFile(FormField)
	if err != nil {
		return Artifact{}, ErrNoVideo
	}
	defer file.Close()

	mediaType := resolveMediaType(header.Header.Get("Content-Type"), header.Filename)
	if !allowedMediaTypes[mediaType] {
		return Artifact{}, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}

	if header.Size > ing.maxBytes {
		return Artifact{}, fmt.Errorf("%w: %d bytes", ErrMediaTooLarge, header.Size)
	}

	id := uuid.New()

	spool, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to create spool file: %w", err)
	}
	defer spool.Close()

	size, err := io.Copy(spool, io.LimitReader(file, ing.maxBytes+1))
	if err != nil {
		os.Remove(spool.Name())
		return Artifact{}, fmt.Errorf("failed to spool upload: %w", err)
	}
	if size > ing.maxBytes {
		os.Remove(spool.Name())
		return Artifact{}, fmt.Errorf("%w: %d bytes", ErrMediaTooLarge, size)
	}

	objectKey := fmt.Sprintf("uploads/%s/%s", id, sanitizeFilename(header.Filename))
	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		os.Remove(spool.Name())
		return Artifact{}, fmt.Errorf("failed to rewind spool file: %w", err)
	}
	if err := ing.store.PutObject(ctx, objectKey, spool); err != nil {
		os.Remove(spool.Name())
		return Artifact{}, fmt.Errorf("failed to store upload: %w", err)
	}

	return Artifact{
		Id:        id,
		Path:      spool.Name(),
		ObjectKey: objectKey,
		MimeType:  mediaType,
		Size:      size,
	}, nil
}

// Fetch downloads a previously ingested artifact from the object store into
// a local temp file. Callers own the returned artifact's spool file.
func (ing *Ingestor) Fetch(ctx context.Context, objectKey, mimeType string) (Artifact, error) {
	reader, err := ing.store.GetObject(ctx, objectKey)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to fetch artifact %s: %w", objectKey, err)
	}
	defer reader.Close()

	spool, err := os.CreateTemp("", "artifact-*"+filepath.Ext(objectKey))
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to create spool file: %w", err)
	}
	defer spool.Close()

	size, err := io.Copy(spool, reader)
	if err != nil {
		os.Remove(spool.Name())
		return Artifact{}, fmt.Errorf("failed to download artifact %s: %w", objectKey, err)
	}

	return Artifact{
		Path:      spool.Name(),
		ObjectKey: objectKey,
		MimeType:  mimeType,
		Size:      size,
	}, nil
}

func resolveMediaType(contentType, filename string) string {
	if contentType != "" {
		if parsed, _, err := mime.ParseMediaType(contentType); err == nil && parsed != "application/octet-stream" {
			return parsed
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	case ".avi":
		return "video/x-msvideo"
	case ".mkv":
		return "video/x-matroska"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return contentType
	}
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	if base == "." || base == "/" || base == "" {
		return "upload.bin"
	}
	return strings.ReplaceAll(base, " ", "_")
}
