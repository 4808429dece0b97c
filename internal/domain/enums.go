package domain

// JobStatus represents the lifecycle of an asynchronous parse job.
// Values outside the known set are kept verbatim.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsKnown reports whether s is one of the documented statuses.
func (s JobStatus) IsKnown() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are expected.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// EventType identifies a webhook notification.
type EventType string

const (
	EventDocumentCompleted EventType = "document.completed"
	EventDocumentFailed    EventType = "document.failed"
)

// IsKnown reports whether t is one of the documented event types.
func (t EventType) IsKnown() bool {
	return t == EventDocumentCompleted || t == EventDocumentFailed
}

// ResultSource marks where a multi-document result came from.
type ResultSource string

// ResultSourceZip is set when the documents were extracted from an archive upload.
const ResultSourceZip ResultSource = "zip"
