package repositories

import (
	"context"

	"github.com/playforge/updatedist/internal/domain/entities"
)

// Lease is a handle to one leased job, returned by LeaseNext. Delivery is
// at-least-once; workers must be idempotent (§4.5).
type Lease interface {
	JobID() string
	Payload() entities.JobPayload
	UpdateProgress(ctx context.Context, pct float64) error
	Complete(ctx context.Context) error
	Fail(ctx context.Context, err error) error
}

// JobQueue is the durable FIFO contract of C5.
type JobQueue interface {
	// Enqueue is a no-op if a live job with jobID already exists. If a
	// failed job with that id exists, it is removed first and re-enqueued.
	Enqueue(ctx context.Context, jobID string, payload entities.JobPayload) error
	LeaseNext(ctx context.Context) (Lease, error)

	// Active and Waiting back the job-introspection route (§10).
	Active(ctx context.Context) ([]entities.JobRecord, error)
	Waiting(ctx context.Context) ([]entities.JobRecord, error)
}
