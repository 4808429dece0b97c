package documents

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/parselyze/parselyze-go/internal/domain"
)

const (
	defaultBufferName = "document.pdf"
	defaultName       = "document"
)

// resolvedFile is a file source after its bytes, name and type are known.
type resolvedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// named is satisfied by *os.File and similar handles.
type named interface {
	Name() string
}

func isEmptySource(src domain.FileSource) bool {
	return src.Path == "" && src.Data == nil && src.Reader == nil
}

func (c *Client) resolve(ctx context.Context, src domain.FileSource) (*resolvedFile, error) {
	set := 0
	if src.Path != "" {
		set++
	}
	if src.Data != nil {
		set++
	}
	if src.Reader != nil {
		set++
	}
	if set != 1 {
		return nil, domain.NewValidationError("invalid file source: exactly one of path, data or reader must be set (got %d)", set)
	}

	switch {
	case src.Path != "":
		data, err := c.files.ReadFile(ctx, src.Path)
		if err != nil {
			return nil, &domain.Error{
				Message: fmt.Sprintf("failed to load file from path %q: %v", src.Path, err),
				Err:     err,
			}
		}
		return &resolvedFile{
			Name:        baseName(src.Path),
			ContentType: ContentTypeForPath(src.Path),
			Data:        data,
		}, nil

	case src.Data != nil:
		name := src.Name
		if name == "" {
			name = defaultBufferName
		}
		return &resolvedFile{
			Name:        name,
			ContentType: contentTypeOf(src.ContentType, name, src.Data),
			Data:        src.Data,
		}, nil

	default:
		data, err := io.ReadAll(src.Reader)
		if err != nil {
			return nil, &domain.Error{
				Message: fmt.Sprintf("failed to read file source: %v", err),
				Err:     err,
			}
		}
		name := src.Name
		if name == "" {
			if n, ok := src.Reader.(named); ok {
				name = baseName(n.Name())
			} else {
				name = defaultName
			}
		}
		return &resolvedFile{
			Name:        name,
			ContentType: contentTypeOf(src.ContentType, name, data),
			Data:        data,
		}, nil
	}
}

// contentTypeOf prefers the declared type, then the extension table, then
// content sniffing.
func contentTypeOf(declared, name string, data []byte) string {
	if declared != "" {
		return declared
	}
	if ct, ok := ContentTypeFor(name); ok {
		return ct
	}
	return mimetype.Detect(data).String()
}

func baseName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return defaultName
	}
	return base
}
