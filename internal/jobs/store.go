package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"formcoach-backend/internal/storage"
	"formcoach-backend/pkg/api"
)

const jobKeyPrefix = "jobs/"

var ErrJobNotFound = errors.New("job not found")

// Store persists job records as JSON objects in the object store. Records
// are small and written by a single worker, so no database is involved.
type Store struct {
	objects storage.ObjectStore
}

func NewStore(objects storage.ObjectStore) *Store {
	return &Store{objects: objects}
}

func jobKey(id uuid.UUID) string {
	return fmt.Sprintf("%s%s/job.json", jobKeyPrefix, id)
}

// Create writes a fresh QUEUED job record and returns it.
func (s *Store) Create(ctx context.Context, id uuid.UUID) (api.AnalysisJob, error) {
	now := time.Now().UTC()
	job := api.AnalysisJob{
		JobId:        id,
		Status:       api.JobQueued,
		CreationTime: now,
		UpdateTime:   now,
	}
	if err := s.save(ctx, job); err != nil {
		return api.AnalysisJob{}, err
	}
	return job, nil
}

// SetStatus transitions a job, attaching the result or error that goes with
// the new status.
func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, status string, result *api.AnalysisResult, jobErr string) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	job.Status = status
	job.Result = result
	job.Error = jobErr
	job.UpdateTime = time.Now().UTC()

	return s.save(ctx, job)
}

func (s *Store) save(ctx context.Context, job api.AnalysisJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.JobId, err)
	}
	if err := s.objects.PutObject(ctx, jobKey(job.JobId), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.JobId, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (api.AnalysisJob, error) {
	reader, err := s.objects.GetObject(ctx, jobKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return api.AnalysisJob{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return api.AnalysisJob{}, fmt.Errorf("failed to load job %s: %w", id, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return api.AnalysisJob{}, fmt.Errorf("failed to read job %s: %w", id, err)
	}

	var job api.AnalysisJob
	if err := json.Unmarshal(data, &job); err != nil {
		return api.AnalysisJob{}, fmt.Errorf("failed to unmarshal job %s: %w", id, err)
	}
	return job, nil
}

// List returns up to limit jobs, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]api.AnalysisJob, error) {
	objects, err := s.objects.ListObjects(ctx, jobKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	var jobs []api.AnalysisJob
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Name, "/job.json") {
			continue
		}

		id, err := uuid.Parse(strings.TrimSuffix(strings.TrimPrefix(obj.Name, jobKeyPrefix), "/job.json"))
		if err != nil {
			continue
		}

		job, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreationTime.After(jobs[j].CreationTime)
	})

	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}
