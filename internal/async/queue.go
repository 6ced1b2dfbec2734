package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/internal/entity"
)

var ErrQueueClosed = errors.New("queue is shutting down")

// Job asks a worker to OCR and extract one stored file.
type Job struct {
	FileID      uuid.UUID
	PONumber    string
	Force       bool // enqueue even if deduplicated
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// FileProcessor is satisfied by *pipeline.Processor.
type FileProcessor interface {
	ProcessFile(ctx context.Context, fileID uuid.UUID, poNumber string) (uuid.UUID, *entity.PurchaseOrder, error)
}

// ResultFunc observes every finished job.
type ResultFunc func(job Job, jobID uuid.UUID, po *entity.PurchaseOrder, err error)
