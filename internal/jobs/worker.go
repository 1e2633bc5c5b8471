package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"formcoach-backend/internal/analysis"
	"formcoach-backend/internal/frames"
	"formcoach-backend/internal/media"
	"formcoach-backend/internal/messaging"
	"formcoach-backend/pkg/api"
)

// Worker drains the analysis queue, running the full pipeline for each
// queued job and writing the outcome back to the job store.
type Worker struct {
	receiver  messaging.Receiver
	store     *Store
	ingestor  *media.Ingestor
	extractor *frames.Extractor
	pipeline  *analysis.Pipeline
}

func NewWorker(receiver messaging.Receiver, store *Store, ingestor *media.Ingestor, extractor *frames.Extractor, pipeline *analysis.Pipeline) *Worker {
	return &Worker{
		receiver:  receiver,
		store:     store,
		ingestor:  ingestor,
		extractor: extractor,
		pipeline:  pipeline,
	}
}

// Run consumes tasks until the context is cancelled or the receiver's task
// channel closes.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("analysis worker started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("analysis worker stopping", "reason", ctx.Err())
			return
		case task, ok := <-w.receiver.Tasks():
			if !ok {
				slog.Info("analysis worker stopping, task channel closed")
				return
			}
			w.handleTask(ctx, task)
		}
	}
}

func (w *Worker) handleTask(ctx context.Context, task messaging.Task) {
	if task.Type() != messaging.AnalysisQueue {
		slog.Warn("received task from unknown queue, discarding", "queue", task.Type())
		if err := task.Reject(); err != nil {
			slog.Error("error rejecting task", "error", err)
		}
		return
	}

	var payload messaging.AnalysisTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		slog.Error("error unmarshalling analysis task, discarding", "error", err)
		if err := task.Reject(); err != nil {
			slog.Error("error rejecting task", "error", err)
		}
		return
	}

	if err := w.processJob(ctx, payload); err != nil {
		slog.Error("analysis job failed", "job_id", payload.JobId, "error", err)
		if err := task.Nack(); err != nil {
			slog.Error("error nacking task", "job_id", payload.JobId, "error", err)
		}
		return
	}

	if err := task.Ack(); err != nil {
		slog.Error("error acking task", "job_id", payload.JobId, "error", err)
	}
}

func (w *Worker) processJob(ctx context.Context, payload messaging.AnalysisTaskPayload) error {
	slog.Info("processing analysis job", "job_id", payload.JobId, "object_key", payload.ObjectKey)

	if err := w.store.SetStatus(ctx, payload.JobId, api.JobRunning, nil, ""); err != nil {
		return err
	}

	result, err := w.analyze(ctx, payload)
	if err != nil {
		if storeErr := w.store.SetStatus(ctx, payload.JobId, api.JobFailed, nil, err.Error()); storeErr != nil {
			slog.Error("failed to record job failure", "job_id", payload.JobId, "error", storeErr)
		}
		return err
	}

	if err := w.store.SetStatus(ctx, payload.JobId, api.JobCompleted, &result, ""); err != nil {
		return err
	}

	slog.Info("analysis job completed", "job_id", payload.JobId, "movement", result.Movement, "score", result.Score)
	return nil
}

func (w *Worker) analyze(ctx context.Context, payload messaging.AnalysisTaskPayload) (api.AnalysisResult, error) {
	artifact, err := w.ingestor.Fetch(ctx, payload.ObjectKey, payload.MimeType)
	if err != nil {
		return api.AnalysisResult{}, err
	}
	defer artifact.Discard()

	set, err := w.extractor.Extract(ctx, artifact.Path, artifact.MimeType)
	if err != nil {
		return api.AnalysisResult{}, err
	}
	defer set.Cleanup()

	return w.pipeline.Analyze(ctx, set)
}
