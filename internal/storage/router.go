package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/parselyze/parselyze-go/internal/port"
)

const s3Scheme = "s3://"

// Router dispatches path-shaped file sources: s3://bucket/key goes to object
// storage, everything else to the fallback reader.
type Router struct {
	fallback port.FileReader
	objects  port.ObjectStorage
}

// NewRouter creates a Router. objects may be nil, in which case s3:// paths fail.
func NewRouter(fallback port.FileReader, objects port.ObjectStorage) *Router {
	return &Router{fallback: fallback, objects: objects}
}

func (r *Router) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, s3Scheme) {
		return r.fallback.ReadFile(ctx, path)
	}
	if r.objects == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	bucket, key, err := SplitS3Path(path)
	if err != nil {
		return nil, err
	}
	return r.objects.Download(ctx, bucket, key)
}

// SplitS3Path splits s3://bucket/key into its bucket and key.
func SplitS3Path(path string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(path, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 path %q: expected s3://bucket/key", path)
	}
	return bucket, key, nil
}
