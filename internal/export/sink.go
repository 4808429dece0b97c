package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DirSink writes each record to its own file under Dir.
type DirSink struct {
	dir    string
	format Format
	now    func() time.Time
}

// NewDirSink creates a sink, creating dir when missing.
func NewDirSink(dir string, format Format) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &DirSink{dir: dir, format: format, now: time.Now}, nil
}

// Save writes rec to {dir}/{job id}_{date}.{format} and returns the path.
func (s *DirSink) Save(ctx context.Context, rec Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := rec.JobID
	if name == "" {
		name = rec.Source
	}
	path := filepath.Join(s.dir, BuildFilename(name, s.format, s.now()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := Write(f, s.format, []Record{rec}); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
