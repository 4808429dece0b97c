package jobs_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parselyze/parselyze-go/internal/apiclient"
	"github.com/parselyze/parselyze-go/internal/domain"
	"github.com/parselyze/parselyze-go/internal/jobs"
	"github.com/parselyze/parselyze-go/internal/port"
	"github.com/parselyze/parselyze-go/mocks"
)

func newClient(baseURL string, doer port.HTTPDoer) *jobs.Client {
	return jobs.NewClient(apiclient.NewCaller(apiclient.Config{
		APIKey:  "plz_test",
		BaseURL: baseURL,
		Timeout: time.Second,
	}, doer, zerolog.Nop(), nil))
}

func serveJob(t *testing.T, wantPath string, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, wantPath, r.URL.EscapedPath())
		assert.Equal(t, "plz_test", r.Header.Get("x-api-key"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestGet_Pending(t *testing.T) {
	server := serveJob(t, "/v1/jobs/job_123", http.StatusOK,
		`{"jobId":"job_123","status":"pending","fileName":"invoice.pdf","templateId":"tpl","result":null,"error":null,"pageCount":null,"attempts":0,"createdAt":"2024-01-01T00:00:00Z","startedAt":null,"completedAt":null}`)
	defer server.Close()

	job, err := newClient(server.URL, nil).Get(context.Background(), "job_123")
	require.NoError(t, err)

	assert.Equal(t, "job_123", job.JobID)
	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.False(t, job.Status.IsTerminal())
	assert.Nil(t, job.Result)
	assert.Nil(t, job.Error)
	assert.Nil(t, job.PageCount)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
}

func TestGet_Completed(t *testing.T) {
	server := serveJob(t, "/v1/jobs/job_123", http.StatusOK,
		`{"jobId":"job_123","status":"completed","fileName":"invoice.pdf","templateId":"tpl","result":{"total":"10.00"},"error":null,"pageCount":3,"attempts":1,"createdAt":"2024-01-01T00:00:00Z","startedAt":"2024-01-01T00:00:05Z","completedAt":"2024-01-01T00:00:30Z"}`)
	defer server.Close()

	job, err := newClient(server.URL, nil).Get(context.Background(), "job_123")
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusCompleted, job.Status)
	assert.True(t, job.HasResult())
	assert.JSONEq(t, `{"total":"10.00"}`, string(job.Result))
	require.NotNil(t, job.PageCount)
	assert.Equal(t, 3, *job.PageCount)
	assert.Equal(t, 1, job.Attempts)
	require.NotNil(t, job.StartedAt)
	require.NotNil(t, job.CompletedAt)
	started, err := job.StartedAt.Time()
	require.NoError(t, err)
	completed, err := job.CompletedAt.Time()
	require.NoError(t, err)
	assert.Equal(t, 25*time.Second, completed.Sub(started))
}

func TestGet_TimestampsKeptVerbatim(t *testing.T) {
	server := serveJob(t, "/v1/jobs/job_7", http.StatusOK,
		`{"jobId":"job_7","status":"processing","fileName":"a.pdf","templateId":"tpl","result":null,"error":null,"pageCount":null,"attempts":1,"createdAt":"2024-01-01T00:00:00.000Z","startedAt":"2024-01-01 00:00:05","completedAt":null}`)
	defer server.Close()

	job, err := newClient(server.URL, nil).Get(context.Background(), "job_7")
	require.NoError(t, err)

	assert.Equal(t, domain.Timestamp("2024-01-01T00:00:00.000Z"), job.CreatedAt)
	require.NotNil(t, job.StartedAt)
	assert.Equal(t, domain.Timestamp("2024-01-01 00:00:05"), *job.StartedAt)

	out, err := json.Marshal(job)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"createdAt":"2024-01-01T00:00:00.000Z"`)
	assert.Contains(t, string(out), `"startedAt":"2024-01-01 00:00:05"`)

	started, err := job.StartedAt.Time()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 5, 0, time.UTC), started)
}

func TestGet_Failed(t *testing.T) {
	server := serveJob(t, "/v1/jobs/job_9", http.StatusOK,
		`{"jobId":"job_9","status":"failed","fileName":"scan.png","templateId":"tpl","result":null,"error":"x","pageCount":null,"attempts":3,"createdAt":"2024-01-01T00:00:00Z","startedAt":"2024-01-01T00:00:01Z","completedAt":"2024-01-01T00:00:02Z"}`)
	defer server.Close()

	job, err := newClient(server.URL, nil).Get(context.Background(), "job_9")
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusFailed, job.Status)
	assert.Nil(t, job.Result)
	assert.False(t, job.HasResult())
	require.NotNil(t, job.Error)
	assert.Equal(t, "x", *job.Error)
	assert.Equal(t, "scan.png", job.FileName)
	assert.Equal(t, 3, job.Attempts)
}

func TestGet_UnknownStatusPassesThrough(t *testing.T) {
	server := serveJob(t, "/v1/jobs/job_1", http.StatusOK,
		`{"jobId":"job_1","status":"archived","createdAt":"2024-01-01T00:00:00Z"}`)
	defer server.Close()

	job, err := newClient(server.URL, nil).Get(context.Background(), "job_1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatus("archived"), job.Status)
	assert.False(t, job.Status.IsKnown())
}

func TestGet_EscapesID(t *testing.T) {
	server := serveJob(t, "/v1/jobs/a%2Fb%20c", http.StatusOK,
		`{"jobId":"a/b c","status":"pending","createdAt":"2024-01-01T00:00:00Z"}`)
	defer server.Close()

	job, err := newClient(server.URL, nil).Get(context.Background(), "a/b c")
	require.NoError(t, err)
	assert.Equal(t, "a/b c", job.JobID)
}

func TestGet_NotFound(t *testing.T) {
	server := serveJob(t, "/v1/jobs/nope", http.StatusNotFound, `{"message":"Job not found"}`)
	defer server.Close()

	_, err := newClient(server.URL, nil).Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, "Job not found", err.Error())
	assert.Equal(t, http.StatusNotFound, domain.StatusOf(err))
}

func TestGet_NetworkError(t *testing.T) {
	doer := new(mocks.MockHTTPDoer)
	doer.On("Do", mock.Anything).Return(nil, errors.New("connection reset by peer"))

	_, err := newClient("https://api.example.com", doer).Get(context.Background(), "job_1")
	require.Error(t, err)
	assert.True(t, domain.IsNetwork(err))
	assert.Contains(t, err.Error(), "connection reset by peer")
	doer.AssertExpectations(t)
}

func TestGet_EmptyIDNoNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	_, err := newClient(server.URL, nil).Get(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "job ID is required", err.Error())
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}
