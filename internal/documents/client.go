package documents

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/parselyze/parselyze-go/internal/apiclient"
	"github.com/parselyze/parselyze-go/internal/domain"
	"github.com/parselyze/parselyze-go/internal/port"
	"github.com/parselyze/parselyze-go/internal/storage/local"
)

const (
	parsePath      = "/documents/parse"
	parseAsyncPath = "/v1/documents/parse/async"
)

// Client submits documents for extraction.
type Client struct {
	caller *apiclient.Caller
	files  port.FileReader
}

// NewClient creates a documents client. files reads path sources and defaults
// to the local file system.
func NewClient(caller *apiclient.Caller, files port.FileReader) *Client {
	if files == nil {
		files = local.NewReader()
	}
	return &Client{caller: caller, files: files}
}

// Parse submits one or more files for synchronous extraction and returns the
// single- or multi-document result.
//
// Deprecated: use ParseAsync and poll the job or receive a webhook instead.
// The synchronous endpoint will be removed in a future major version.
func (c *Client) Parse(ctx context.Context, req domain.ParseRequest) (domain.ParseResult, error) {
	if len(req.Files) == 0 {
		return nil, domain.NewValidationError("at least one file is required")
	}
	if req.TemplateID == "" {
		return nil, domain.NewValidationError("template ID is required")
	}

	files := make([]*resolvedFile, 0, len(req.Files))
	for _, src := range req.Files {
		f, err := c.resolve(ctx, src)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	body, contentType, err := buildForm(req.TemplateID, req.Language, "files", files)
	if err != nil {
		return nil, &domain.Error{Message: err.Error(), Err: err}
	}

	resp, err := c.caller.Do(ctx, apiclient.Request{
		Endpoint:    "documents.parse",
		Method:      http.MethodPost,
		Path:        parsePath,
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	result, err := domain.DecodeParseResult(resp.Body)
	if err != nil {
		return nil, apiclient.InvalidResponse(resp.StatusCode, err)
	}
	return result, nil
}

// ParseAsync submits a single file for background processing. The returned
// job ID is used with the jobs client or matched against webhook events.
func (c *Client) ParseAsync(ctx context.Context, req domain.AsyncParseRequest) (*domain.AsyncJob, error) {
	if isEmptySource(req.File) {
		return nil, domain.NewValidationError("file is required")
	}
	if req.TemplateID == "" {
		return nil, domain.NewValidationError("template ID is required")
	}

	f, err := c.resolve(ctx, req.File)
	if err != nil {
		return nil, err
	}

	body, contentType, err := buildForm(req.TemplateID, req.Language, "file", []*resolvedFile{f})
	if err != nil {
		return nil, &domain.Error{Message: err.Error(), Err: err}
	}

	resp, err := c.caller.Do(ctx, apiclient.Request{
		Endpoint:    "documents.parse_async",
		Method:      http.MethodPost,
		Path:        parseAsyncPath,
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	var job domain.AsyncJob
	if err := apiclient.DecodeJSON(resp, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// buildForm writes templateId, then language when set, then one part per file
// under fieldName, in order.
func buildForm(templateID, language, fieldName string, files []*resolvedFile) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("templateId", templateID); err != nil {
		return nil, "", fmt.Errorf("writing templateId: %w", err)
	}
	if language != "" {
		if err := w.WriteField("language", language); err != nil {
			return nil, "", fmt.Errorf("writing language: %w", err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(fieldName), quoteEscaper.Replace(f.Name)))
		h.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating part for %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("writing part for %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
