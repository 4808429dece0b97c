package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/parselyze/parselyze-go"
	"github.com/parselyze/parselyze-go/internal/export"
	"github.com/parselyze/parselyze-go/internal/service"
)

type submission struct {
	File  string               `json:"file"`
	Job   *parselyze.AsyncJob  `json:"job,omitempty"`
	Final *parselyze.JobRecord `json:"final,omitempty"`
	Error string               `json:"error,omitempty"`
}

func runSubmit(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := commonFlags("submit", stderr)
	templateID := fs.String("template", "", "template ID (required)")
	language := fs.String("language", "", "OCR language code")
	concurrency := fs.Int("concurrency", 4, "maximum parallel submissions")
	wait := fs.Bool("wait", false, "poll each job until it finishes")
	interval := fs.Duration("poll-interval", 2*time.Second, "polling interval with --wait")
	exportPath := fs.String("export", "", "write finished results to a .csv or .xlsx file (implies --wait)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	files := fs.Args()
	if len(files) == 0 {
		return errors.New("submit: at least one file is required")
	}
	if *concurrency < 1 {
		*concurrency = 1
	}
	if *exportPath != "" {
		*wait = true
	}

	a, err := newApp(ctx, fs, files, stdout, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	watcher := service.NewJobWatcher(a.client.Jobs, *interval, a.log)
	results := make([]submission, len(files))

	// Each file is independent: one failure is reported without stopping the rest.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)
	for i, file := range files {
		g.Go(func() error {
			results[i].File = file
			job, err := a.client.Documents.ParseAsync(gctx, parselyze.AsyncParseRequest{
				File:       parselyze.FromPath(file),
				TemplateID: *templateID,
				Language:   *language,
			})
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Job = job
			a.log.Info().Str("file", file).Str("job_id", job.JobID).Msg("submitted")

			if *wait {
				final, err := watcher.Wait(gctx, job.JobID)
				if err != nil {
					results[i].Error = err.Error()
					return nil
				}
				results[i].Final = final
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := a.printJSON(results); err != nil {
		return err
	}

	if *exportPath != "" {
		var records []export.Record
		for _, r := range results {
			if r.Final != nil {
				rec := export.RecordFromJob(r.Final)
				if rec.Source == "" {
					rec.Source = filepath.Base(r.File)
				}
				records = append(records, rec)
			}
		}
		if err := writeExport(*exportPath, records); err != nil {
			return err
		}
	}

	if failed := countFailed(results); failed > 0 {
		return fmt.Errorf("submit: %d of %d files failed", failed, len(results))
	}
	return nil
}

func countFailed(results []submission) int {
	n := 0
	for _, r := range results {
		if r.Error != "" {
			n++
		}
	}
	return n
}

func runJob(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := commonFlags("job", stderr)
	wait := fs.Bool("wait", false, "poll until the job finishes")
	interval := fs.Duration("poll-interval", 2*time.Second, "polling interval with --wait")
	exportPath := fs.String("export", "", "write results to a .csv or .xlsx file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ids := fs.Args()
	if len(ids) == 0 {
		return errors.New("job: at least one job ID is required")
	}

	a, err := newApp(ctx, fs, nil, stdout, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	watcher := service.NewJobWatcher(a.client.Jobs, *interval, a.log)
	records := make([]*parselyze.JobRecord, len(ids))

	var mu sync.Mutex
	var firstErr error
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range ids {
		g.Go(func() error {
			var job *parselyze.JobRecord
			var err error
			if *wait {
				job, err = watcher.Wait(gctx, id)
			} else {
				job, err = a.client.Jobs.Get(gctx, id)
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("job %s: %w", id, err)
				}
				mu.Unlock()
				return nil
			}
			records[i] = job
			return nil
		})
	}
	_ = g.Wait()

	var found []*parselyze.JobRecord
	for _, r := range records {
		if r != nil {
			found = append(found, r)
		}
	}
	if err := a.printJSON(found); err != nil {
		return err
	}

	if *exportPath != "" {
		recs := make([]export.Record, 0, len(found))
		for _, r := range found {
			recs = append(recs, export.RecordFromJob(r))
		}
		if err := writeExport(*exportPath, recs); err != nil {
			return err
		}
	}
	return firstErr
}

func runParse(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := commonFlags("parse", stderr)
	templateID := fs.String("template", "", "template ID (required)")
	language := fs.String("language", "", "OCR language code")
	exportPath := fs.String("export", "", "write results to a .csv or .xlsx file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	files := fs.Args()

	a, err := newApp(ctx, fs, files, stdout, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	sources := make([]parselyze.FileSource, 0, len(files))
	for _, f := range files {
		sources = append(sources, parselyze.FromPath(f))
	}

	res, err := a.client.Documents.Parse(ctx, parselyze.ParseRequest{
		Files:      sources,
		TemplateID: *templateID,
		Language:   *language,
	})
	if err != nil {
		return err
	}
	if err := a.printJSON(res); err != nil {
		return err
	}

	if *exportPath != "" {
		name := ""
		if len(files) > 0 {
			name = filepath.Base(files[0])
		}
		return writeExport(*exportPath, export.RecordsFromParseResult(res, name))
	}
	return nil
}

func runVerify(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := commonFlags("verify", stderr)
	fs.String("webhook-secret", "", "webhook signing secret")
	signature := fs.String("signature", "", "value of the X-Webhook-Signature header")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var body []byte
	var err error
	switch {
	case fs.NArg() == 0 || fs.Arg(0) == "-":
		body, err = io.ReadAll(stdin)
	default:
		body, err = os.ReadFile(fs.Arg(0))
	}
	if err != nil {
		return fmt.Errorf("reading payload: %w", err)
	}

	// Verification needs no API key; only the secret is loaded.
	verifier, err := loadVerifier(fs)
	if err != nil {
		return err
	}

	if !verifier.Verify(body, *signature) {
		fmt.Fprintln(stdout, "invalid")
		return errInvalidSignature
	}

	evt, err := parselyze.DecodeWebhookEvent(body)
	if err != nil {
		fmt.Fprintln(stdout, "valid (payload is not a webhook event)")
		return nil
	}
	fmt.Fprintf(stdout, "valid: %s job=%s status=%s\n", evt.EventType, evt.JobID, evt.Status)
	return nil
}
