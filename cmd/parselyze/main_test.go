package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parselyze/parselyze-go/internal/webhook"
)

func fakeAPI(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var submits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/documents/parse/async", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "plz_cli", r.Header.Get("x-api-key"))
		atomic.AddInt32(&submits, 1)
		_, _ = w.Write([]byte(`{"jobId":"job_1","status":"pending","message":"queued","createdAt":"2026-02-15T12:00:00Z"}`))
	})
	mux.HandleFunc("/v1/documents/parse", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "plz_cli", r.Header.Get("x-api-key"))
		_, _ = w.Write([]byte(`{"result":{"invoice":{"total":"42.00"}},"totalPageCount":2,"pageUsed":2,"pageRemaining":98}`))
	})
	mux.HandleFunc("/v1/jobs/job_1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"jobId":"job_1","status":"completed","fileName":"a.pdf","templateId":"tpl","result":{"total":"9.99"},"error":null,"pageCount":1,"attempts":1,"createdAt":"2026-02-15T12:00:00Z"}`))
	})
	mux.HandleFunc("/v1/jobs/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Job not found"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &submits
}

func TestRun_SubmitWaitExport(t *testing.T) {
	server, submits := fakeAPI(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0o600))
	out := filepath.Join(dir, "results.csv")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"submit",
		"--api-key", "plz_cli",
		"--base-url", server.URL,
		"--template", "tpl",
		"--poll-interval", "1ms",
		"--export", out,
		file,
	}, nil, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	assert.Equal(t, int32(1), atomic.LoadInt32(submits))
	assert.Contains(t, stdout.String(), `"jobId": "job_1"`)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "total", rows[0][4])
	assert.Equal(t, "9.99", rows[1][4])
}

func TestRun_ParseExport(t *testing.T) {
	server, _ := fakeAPI(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "invoice.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0o600))
	out := filepath.Join(dir, "out.csv")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"parse",
		"--api-key", "plz_cli",
		"--base-url", server.URL,
		"--template", "tpl",
		"--export", out,
		file,
	}, nil, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), `"pageCount": 2`)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"invoice.pdf", "", "completed", "2", "42.00"}, rows[1])
	assert.Equal(t, "invoice.total", rows[0][4])
}

func TestRun_SubmitReportsFailures(t *testing.T) {
	server, submits := fakeAPI(t)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"submit", "--api-key", "plz_cli", "--base-url", server.URL, "--template", "tpl",
		filepath.Join(t.TempDir(), "missing.pdf"),
	}, nil, &stdout, &stderr)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "1 of 1 files failed")
	assert.Contains(t, stdout.String(), "failed to load file from path")
	assert.Equal(t, int32(0), atomic.LoadInt32(submits))
}

func TestRun_Job(t *testing.T) {
	server, _ := fakeAPI(t)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"job", "--api-key", "plz_cli", "--base-url", server.URL, "job_1"}, nil, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), `"status": "completed"`)

	stdout.Reset()
	err = run(context.Background(), []string{"job", "--api-key", "plz_cli", "--base-url", server.URL, "missing"}, nil, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Job not found")
}

func TestRun_RejectsBadAPIKey(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"job", "--api-key", "notvalid", "job_1"}, nil, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plz_")
}

func TestRun_Verify(t *testing.T) {
	body := `{"eventId":"evt_1","eventType":"document.completed","jobId":"job_1","status":"completed","timestamp":"2026-02-15T12:00:00Z"}`
	sig, err := webhook.NewVerifier("whsec").Sign(body)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	err = run(context.Background(), []string{"verify", "--webhook-secret", "whsec", "--signature", sig},
		strings.NewReader(body), &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "valid: document.completed job=job_1")

	stdout.Reset()
	err = run(context.Background(), []string{"verify", "--webhook-secret", "whsec", "--signature", "00"},
		strings.NewReader(body), &stdout, &stderr)
	assert.ErrorIs(t, err, errInvalidSignature)
	assert.Equal(t, "invalid\n", stdout.String())
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"frobnicate"}, nil, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "usage: parselyze")

	err = run(context.Background(), nil, nil, &stdout, &stderr)
	assert.Error(t, err)
}
