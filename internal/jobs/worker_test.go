package jobs

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formcoach-backend/internal/analysis"
	"formcoach-backend/internal/frames"
	"formcoach-backend/internal/llm"
	"formcoach-backend/internal/media"
	"formcoach-backend/internal/messaging"
	"formcoach-backend/internal/storage"
	"formcoach-backend/pkg/api"
)

type stubChat struct{}

func (stubChat) Complete(ctx context.Context, req llm.ChatRequest) (string, error) {
	if req.ImagePath != "" && req.SystemPrompt != "" && req.Prompt != "" && req.ResponseFormat != nil {
		// Identification and assessment are distinguished by which schema the
		// request carries; returning a superset satisfies both decoders.
		return `{"movement": "Goblet Squat", "keyPoints": ["Elbows inside knees"], "commonErrors": ["Rounding the back"],
			"feedback": ["Nice upright torso"], "correctionPoints": [], "score": 8}`, nil
	}
	return `{}`, nil
}

type stubImages struct{}

func (stubImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return "https://images.example.com/generated.png", nil
}

func newTestWorker(t *testing.T) (*Worker, *Store, *messaging.InMemoryQueue, storage.ObjectStore) {
	t.Helper()

	objects, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	queue := messaging.NewInMemoryQueue()
	store := NewStore(objects)
	ingestor := media.NewIngestor(objects, 0)
	extractor := frames.NewExtractor("ffmpeg", "")
	pipeline := analysis.NewPipeline(stubChat{}, stubImages{}, nil)

	return NewWorker(queue, store, ingestor, extractor, pipeline), store, queue, objects
}

func TestWorkerCompletesJob(t *testing.T) {
	worker, store, queue, objects := newTestWorker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	jobId := uuid.New()
	objectKey := "uploads/" + jobId.String() + "/frame.jpg"
	require.NoError(t, objects.PutObject(ctx, objectKey, bytes.NewReader([]byte("jpeg bytes"))))
	_, err := store.Create(ctx, jobId)
	require.NoError(t, err)

	require.NoError(t, queue.PublishAnalysisTask(ctx, messaging.AnalysisTaskPayload{
		JobId:     jobId,
		ObjectKey: objectKey,
		MimeType:  "image/jpeg",
	}))

	require.Eventually(t, func() bool {
		job, err := store.Get(context.Background(), jobId)
		return err == nil && job.Status == api.JobCompleted
	}, 5*time.Second, 20*time.Millisecond)

	job, err := store.Get(context.Background(), jobId)
	require.NoError(t, err)
	require.NotNil(t, job.Result)
	assert.Equal(t, "Goblet Squat", job.Result.Movement)
	assert.Equal(t, 8.0, job.Result.Score)
	assert.Empty(t, job.Error)
}

func TestWorkerMarksJobFailedWhenArtifactMissing(t *testing.T) {
	worker, store, queue, _ := newTestWorker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	jobId := uuid.New()
	_, err := store.Create(ctx, jobId)
	require.NoError(t, err)

	require.NoError(t, queue.PublishAnalysisTask(ctx, messaging.AnalysisTaskPayload{
		JobId:     jobId,
		ObjectKey: "uploads/" + jobId.String() + "/missing.mp4",
		MimeType:  "video/mp4",
	}))

	require.Eventually(t, func() bool {
		job, err := store.Get(context.Background(), jobId)
		return err == nil && job.Status == api.JobFailed
	}, 5*time.Second, 20*time.Millisecond)

	job, err := store.Get(context.Background(), jobId)
	require.NoError(t, err)
	assert.NotEmpty(t, job.Error)
	assert.Nil(t, job.Result)
}
