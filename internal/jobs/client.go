package jobs

import (
	"context"
	"net/http"
	"net/url"

	"github.com/parselyze/parselyze-go/internal/apiclient"
	"github.com/parselyze/parselyze-go/internal/domain"
)

// Client reads asynchronous job state.
type Client struct {
	caller *apiclient.Caller
}

// NewClient creates a jobs client.
func NewClient(caller *apiclient.Caller) *Client {
	return &Client{caller: caller}
}

// Get fetches the current state of a job. It does not wait for the job to
// finish; callers poll or rely on webhooks.
func (c *Client) Get(ctx context.Context, jobID string) (*domain.JobRecord, error) {
	if jobID == "" {
		return nil, domain.NewValidationError("job ID is required")
	}

	resp, err := c.caller.Do(ctx, apiclient.Request{
		Endpoint: "jobs.get",
		Method:   http.MethodGet,
		Path:     "/v1/jobs/" + url.PathEscape(jobID),
	})
	if err != nil {
		return nil, err
	}

	var job domain.JobRecord
	if err := apiclient.DecodeJSON(resp, &job); err != nil {
		return nil, err
	}
	if !job.HasResult() {
		job.Result = nil
	}
	return &job, nil
}
