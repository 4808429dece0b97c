package local

import (
	"context"
	"os"
)

// Reader reads file sources from the local file system.
type Reader struct{}

// NewReader creates a local file system reader.
func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
