package domain

import (
	"encoding/json"
	"io"
	"time"
)

// FileSource is one document handed to the parse endpoints. Exactly one of
// Path, Data or Reader must be set. Name and ContentType are optional hints for
// Data and Reader sources; path sources derive both from the path.
type FileSource struct {
	Path        string
	Data        []byte
	Reader      io.Reader
	Name        string
	ContentType string
}

// FromPath returns a source read from storage at submission time.
func FromPath(path string) FileSource {
	return FileSource{Path: path}
}

// FromBytes returns an in-memory source. name and contentType may be empty.
func FromBytes(data []byte, name, contentType string) FileSource {
	return FileSource{Data: data, Name: name, ContentType: contentType}
}

// FromReader returns a source backed by an open handle such as *os.File.
func FromReader(r io.Reader, name, contentType string) FileSource {
	return FileSource{Reader: r, Name: name, ContentType: contentType}
}

// ParseRequest is the input of the synchronous parse endpoint.
type ParseRequest struct {
	Files      []FileSource
	TemplateID string
	Language   string
}

// AsyncParseRequest is the input of the asynchronous parse endpoint.
type AsyncParseRequest struct {
	File       FileSource
	TemplateID string
	Language   string
}

// AsyncJob is returned immediately by an asynchronous submission. JobID is the
// only handle to the job's later state.
type AsyncJob struct {
	JobID     string    `json:"jobId"`
	Status    JobStatus `json:"status"`
	Message   string    `json:"message"`
	CreatedAt Timestamp `json:"createdAt"`
}

// JobRecord is the server-side state of an asynchronous job as seen by polling.
// Result is populated for completed jobs and Error for failed ones.
type JobRecord struct {
	JobID       string          `json:"jobId"`
	Status      JobStatus       `json:"status"`
	FileName    string          `json:"fileName"`
	TemplateID  string          `json:"templateId"`
	Result      json.RawMessage `json:"result"`
	Error       *string         `json:"error"`
	PageCount   *int            `json:"pageCount"`
	Attempts    int             `json:"attempts"`
	CreatedAt   Timestamp       `json:"createdAt"`
	StartedAt   *Timestamp      `json:"startedAt"`
	CompletedAt *Timestamp      `json:"completedAt"`
}

// HasResult reports whether the record carries an extraction result.
func (j *JobRecord) HasResult() bool {
	return !IsNullJSON(j.Result)
}

// WebhookEvent is the body of a notification sent to a caller-owned endpoint
// when a job reaches a terminal state. Field order follows the wire format.
type WebhookEvent struct {
	EventID   string          `json:"eventId"`
	EventType EventType       `json:"eventType"`
	JobID     string          `json:"jobId"`
	Status    JobStatus       `json:"status"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	PageCount *int            `json:"pageCount,omitempty"`
	Timestamp Timestamp       `json:"timestamp"`
}

// Timestamp is a server-side time kept exactly as it appeared on the wire.
type Timestamp string

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// Time parses t. RFC 3339 is expected; a few common variants without the T
// separator or zone are accepted and read as UTC.
func (t Timestamp) Time() (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		v, err := time.Parse(layout, string(t))
		if err == nil {
			return v, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// IsNullJSON reports whether raw is absent or the JSON literal null.
func IsNullJSON(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
