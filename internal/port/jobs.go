package port

import (
	"context"

	"github.com/parselyze/parselyze-go/internal/domain"
)

// JobFetcher reads the current state of an asynchronous job.
type JobFetcher interface {
	Get(ctx context.Context, jobID string) (*domain.JobRecord, error)
}
