package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestObjectStore(t *testing.T) (*LocalObjectStore, string) {
	t.Helper()
	dir := t.TempDir()
	objectStore, err := NewLocalObjectStore(dir)
	require.NoError(t, err)
	return objectStore, dir
}

func TestLocalObjectStore_PutObject(t *testing.T) {
	objectStore, baseDir := setupTestObjectStore(t)

	key := "uploads/abc/video.mp4"
	content := []byte("Test content")

	err := objectStore.PutObject(context.Background(), key, bytes.NewReader(content))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(baseDir, "uploads", "abc", "video.mp4"))
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestLocalObjectStore_GetObject(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)

	key := "jobs/123/job.json"
	content := []byte(`{"status":"QUEUED"}`)
	require.NoError(t, objectStore.PutObject(context.Background(), key, bytes.NewReader(content)))

	reader, err := objectStore.GetObject(context.Background(), key)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestLocalObjectStore_GetObject_Missing(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)

	_, err := objectStore.GetObject(context.Background(), "no/such/key")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrObjectNotFound))
}

func TestLocalObjectStore_DeleteObjects(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)

	keys := []string{"uploads/a/file1.mp4", "uploads/a/file2.mp4", "uploads/b/file3.mp4"}
	for _, key := range keys {
		require.NoError(t, objectStore.PutObject(context.Background(), key, bytes.NewReader([]byte("content"))))
	}

	require.NoError(t, objectStore.DeleteObjects(context.Background(), "uploads/a"))

	for _, key := range []string{"uploads/a/file1.mp4", "uploads/a/file2.mp4"} {
		_, err := objectStore.GetObject(context.Background(), key)
		assert.True(t, errors.Is(err, ErrObjectNotFound), "object %s should be deleted", key)
	}

	reader, err := objectStore.GetObject(context.Background(), "uploads/b/file3.mp4")
	require.NoError(t, err, "object outside prefix should still exist")
	reader.Close()
}

func TestLocalObjectStore_ListObjects(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)

	keys := []string{"jobs/1/job.json", "jobs/2/job.json", "uploads/x/video.mp4"}
	for _, key := range keys {
		require.NoError(t, objectStore.PutObject(context.Background(), key, bytes.NewReader([]byte("content"))))
	}

	objects, err := objectStore.ListObjects(context.Background(), "jobs")
	require.NoError(t, err)
	require.Len(t, objects, 2)

	names := []string{objects[0].Name, objects[1].Name}
	assert.Contains(t, names, "jobs/1/job.json")
	assert.Contains(t, names, "jobs/2/job.json")
	for _, obj := range objects {
		assert.Equal(t, int64(len("content")), obj.Size)
	}
}

func TestLocalObjectStore_ListObjects_EmptyPrefix(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)

	objects, err := objectStore.ListObjects(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, objects)
}
