package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/parselyze/parselyze-go/internal/domain"
	"github.com/parselyze/parselyze-go/internal/export"
	"github.com/parselyze/parselyze-go/internal/port"
)

// ResultSink stores an exported job result and returns where it went.
type ResultSink interface {
	Save(ctx context.Context, rec export.Record) (string, error)
}

// EventOutcome describes what was done with a webhook event.
type EventOutcome struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Ignored  bool   `json:"ignored,omitempty"`
	Exported string `json:"exported,omitempty"`
}

// EventService processes verified webhook events.
type EventService interface {
	Handle(ctx context.Context, evt *domain.WebhookEvent) (*EventOutcome, error)
}

type eventService struct {
	jobs port.JobFetcher
	sink ResultSink
	log  zerolog.Logger
}

// NewEventService creates an EventService. jobs is used to fetch results that
// were not included in a completed event; jobs and sink may be nil.
func NewEventService(jobs port.JobFetcher, sink ResultSink, log zerolog.Logger) EventService {
	return &eventService{jobs: jobs, sink: sink, log: log}
}

func (s *eventService) Handle(ctx context.Context, evt *domain.WebhookEvent) (*EventOutcome, error) {
	out := &EventOutcome{JobID: evt.JobID, Status: string(evt.Status)}

	if !evt.EventType.IsKnown() || !evt.Status.IsTerminal() {
		s.log.Warn().
			Str("event_id", evt.EventID).
			Str("event_type", string(evt.EventType)).
			Str("job_id", evt.JobID).
			Str("status", string(evt.Status)).
			Msg("ignoring webhook event")
		out.Ignored = true
		return out, nil
	}

	rec := export.RecordFromEvent(evt)
	if evt.Status == domain.JobStatusCompleted && domain.IsNullJSON(evt.Result) && s.jobs != nil {
		job, err := s.jobs.Get(ctx, evt.JobID)
		if err != nil {
			return nil, fmt.Errorf("fetching job %s: %w", evt.JobID, err)
		}
		rec = export.RecordFromJob(job)
	}

	if s.sink != nil {
		path, err := s.sink.Save(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("exporting job %s: %w", evt.JobID, err)
		}
		out.Exported = path
	}

	evtLog := s.log.Info()
	if evt.Status == domain.JobStatusFailed {
		evtLog = s.log.Warn().Str("error", evt.Error)
	}
	evtLog.Str("event_id", evt.EventID).
		Str("event_type", string(evt.EventType)).
		Str("job_id", evt.JobID).
		Str("exported", out.Exported).
		Msg("webhook event processed")

	return out, nil
}
