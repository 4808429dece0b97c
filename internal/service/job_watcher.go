package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/parselyze/parselyze-go/internal/domain"
	"github.com/parselyze/parselyze-go/internal/port"
)

// JobWatcher polls a job until it reaches a terminal status. A failed poll
// ends the watch; it is not retried.
type JobWatcher struct {
	jobs     port.JobFetcher
	interval time.Duration
	log      zerolog.Logger
}

// NewJobWatcher creates a JobWatcher polling every interval.
func NewJobWatcher(jobs port.JobFetcher, interval time.Duration, log zerolog.Logger) *JobWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &JobWatcher{jobs: jobs, interval: interval, log: log}
}

// Wait returns the first terminal record of jobID, or the first polling error,
// or ctx's error when it ends first.
func (w *JobWatcher) Wait(ctx context.Context, jobID string) (*domain.JobRecord, error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	last := domain.JobStatus("")
	for {
		job, err := w.jobs.Get(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Status != last {
			w.log.Debug().Str("job_id", jobID).Str("status", string(job.Status)).Msg("job status")
			last = job.Status
		}
		if job.Status.IsTerminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
