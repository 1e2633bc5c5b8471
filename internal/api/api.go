package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"formcoach-backend/internal/analysis"
	"formcoach-backend/internal/frames"
	"formcoach-backend/internal/jobs"
	"formcoach-backend/internal/media"
	"formcoach-backend/internal/messaging"
	"formcoach-backend/pkg/api"
)

// MovementAnalysisService exposes the analysis pipeline over HTTP: a
// synchronous endpoint for interactive clients, a demo endpoint backed by
// the bundled sample media, and queued jobs for longer videos.
type MovementAnalysisService struct {
	ingestor  *media.Ingestor
	extractor *frames.Extractor
	pipeline  *analysis.Pipeline
	store     *jobs.Store
	publisher messaging.Publisher
}

func NewMovementAnalysisService(
	ingestor *media.Ingestor,
	extractor *frames.Extractor,
	pipeline *analysis.Pipeline,
	store *jobs.Store,
	publisher messaging.Publisher,
) *MovementAnalysisService {
	return &MovementAnalysisService{
		ingestor:  ingestor,
		extractor: extractor,
		pipeline:  pipeline,
		store:     store,
		publisher: publisher,
	}
}

func (s *MovementAnalysisService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Route("/api/movement-analysis", func(r chi.Router) {
		r.Post("/upload", RestHandler(s.Analyze))
		r.Post("/demo", RestHandler(s.AnalyzeDemo))
		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", RestHandler(s.SubmitJob))
			r.Get("/", RestHandler(s.ListJobs))
			r.Get("/{job_id}", RestHandler(s.GetJob))
		})
	})
}

func (s *MovementAnalysisService) Analyze(r *http.Request) (any, error) {
	ctx := r.Context()

	artifact, err := s.ingestor.Ingest(ctx, r)
	if err != nil {
		return nil, mapIngestError(err)
	}
	defer artifact.Discard()

	set, err := s.extractor.Extract(ctx, artifact.Path, artifact.MimeType)
	if err != nil {
		slog.Error("error extracting frames", "object_key", artifact.ObjectKey, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "unable to extract frames from uploaded media")
	}
	defer set.Cleanup()

	result, err := s.pipeline.Analyze(ctx, set)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "analysis was interrupted")
	}

	return result, nil
}

// AnalyzeDemo runs the pipeline over the bundled sample media so clients can
// exercise the full response shape without uploading anything.
func (s *MovementAnalysisService) AnalyzeDemo(r *http.Request) (any, error) {
	ctx := r.Context()

	set, err := s.extractor.DemoSet()
	if err != nil {
		slog.Error("demo media unavailable", "error", err)
		return nil, CodedErrorf(http.StatusNotFound, "demo media not found")
	}
	// Using the demo asset here is the point of the endpoint, not a
	// degradation of it.
	set.FromDemo = false

	result, err := s.pipeline.Analyze(ctx, set)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "analysis was interrupted")
	}

	result.Demo = true
	return result, nil
}

func (s *MovementAnalysisService) SubmitJob(r *http.Request) (any, error) {
	ctx := r.Context()

	artifact, err := s.ingestor.Ingest(ctx, r)
	if err != nil {
		return nil, mapIngestError(err)
	}
	// The worker pulls its own copy from the object store.
	artifact.Discard()

	job, err := s.store.Create(ctx, artifact.Id)
	if err != nil {
		slog.Error("error creating job record", "job_id", artifact.Id, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to create analysis job")
	}

	payload := messaging.AnalysisTaskPayload{
		JobId:     job.JobId,
		ObjectKey: artifact.ObjectKey,
		MimeType:  artifact.MimeType,
	}
	if err := s.publisher.PublishAnalysisTask(ctx, payload); err != nil {
		slog.Error("error publishing analysis task", "job_id", job.JobId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to queue analysis job")
	}

	slog.Info("submitted analysis job", "job_id", job.JobId, "object_key", artifact.ObjectKey)
	return api.SubmitJobResponse{JobId: job.JobId}, nil
}

func (s *MovementAnalysisService) GetJob(r *http.Request) (any, error) {
	jobId, err := URLParamUUID(r, "job_id")
	if err != nil {
		return nil, err
	}

	job, err := s.store.Get(r.Context(), jobId)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "job not found")
		}
		slog.Error("error getting job", "job_id", jobId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving job record")
	}

	return job, nil
}

func (s *MovementAnalysisService) ListJobs(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.ListJobsParams](r)
	if err != nil {
		return nil, err
	}

	list, err := s.store.List(r.Context(), params.Limit)
	if err != nil {
		slog.Error("error listing jobs", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing jobs")
	}

	return api.ListJobsResponse{Jobs: list}, nil
}

func mapIngestError(err error) error {
	switch {
	case errors.Is(err, media.ErrNoVideo):
		return CodedErrorf(http.StatusBadRequest, "No video uploaded")
	case errors.Is(err, media.ErrUnsupportedMediaType):
		return CodedError(http.StatusUnsupportedMediaType, err)
	case errors.Is(err, media.ErrMediaTooLarge):
		return CodedError(http.StatusRequestEntityTooLarge, err)
	default:
		slog.Error("error ingesting upload", "error", err)
		return CodedErrorf(http.StatusInternalServerError, "failed to store uploaded media")
	}
}
