package port

import "context"

// FileReader reads the full contents of a path-shaped file source.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// ObjectStorage abstracts reads from cloud object storage.
type ObjectStorage interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}
