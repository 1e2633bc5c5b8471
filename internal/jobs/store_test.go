package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formcoach-backend/internal/storage"
	"formcoach-backend/pkg/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	objects, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)
	return NewStore(objects)
}

func TestStoreCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	id := uuid.New()

	created, err := store.Create(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, api.JobQueued, created.Status)

	loaded, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, loaded.JobId)
	assert.Equal(t, api.JobQueued, loaded.Status)
	assert.Nil(t, loaded.Result)
}

func TestStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, ErrJobNotFound))
}

func TestStoreStatusTransitions(t *testing.T) {
	store := newTestStore(t)
	id := uuid.New()

	_, err := store.Create(context.Background(), id)
	require.NoError(t, err)

	require.NoError(t, store.SetStatus(context.Background(), id, api.JobRunning, nil, ""))

	result := &api.AnalysisResult{
		MovementProfile: api.MovementProfile{Movement: "Deadlift"},
		FormAssessment:  api.FormAssessment{Feedback: []string{"solid"}, Score: 9},
	}
	require.NoError(t, store.SetStatus(context.Background(), id, api.JobCompleted, result, ""))

	loaded, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, api.JobCompleted, loaded.Status)
	require.NotNil(t, loaded.Result)
	assert.Equal(t, "Deadlift", loaded.Result.Movement)
	assert.True(t, loaded.UpdateTime.After(loaded.CreationTime) || loaded.UpdateTime.Equal(loaded.CreationTime))
}

func TestStoreFailureKeepsError(t *testing.T) {
	store := newTestStore(t)
	id := uuid.New()

	_, err := store.Create(context.Background(), id)
	require.NoError(t, err)

	require.NoError(t, store.SetStatus(context.Background(), id, api.JobFailed, nil, "frame extraction failed"))

	loaded, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, api.JobFailed, loaded.Status)
	assert.Equal(t, "frame extraction failed", loaded.Error)
}

func TestStoreListNewestFirstWithLimit(t *testing.T) {
	store := newTestStore(t)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		id := uuid.New()
		_, err := store.Create(context.Background(), id)
		require.NoError(t, err)
		ids = append(ids, id)
		time.Sleep(5 * time.Millisecond)
	}

	all, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].JobId)
	assert.Equal(t, ids[0], all[2].JobId)

	limited, err := store.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
