package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	AnalysisQueue   = "analysis_queue"
	RetryDelay      = 5 * time.Second
	MaxConnectRetry = 5
)

type Task interface {
	Type() string

	Payload() []byte

	Ack() error

	Nack() error

	Reject() error
}

// AnalysisTaskPayload points a worker at an ingested artifact. The media
// itself stays in the object store; only the key travels on the queue.
type AnalysisTaskPayload struct {
	JobId     uuid.UUID
	ObjectKey string
	MimeType  string
}

type Publisher interface {
	PublishAnalysisTask(ctx context.Context, payload AnalysisTaskPayload) error

	Close()
}

type Receiver interface {
	Tasks() <-chan Task

	Close()
}
