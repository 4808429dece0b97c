package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parselyze/parselyze-go/internal/storage"
	"github.com/parselyze/parselyze-go/mocks"
)

func TestRouter_LocalPath(t *testing.T) {
	fallback := new(mocks.MockFileReader)
	objects := new(mocks.MockObjectStorage)
	fallback.On("ReadFile", mock.Anything, "./invoice.pdf").Return([]byte("local"), nil)

	data, err := storage.NewRouter(fallback, objects).ReadFile(context.Background(), "./invoice.pdf")
	require.NoError(t, err)

	assert.Equal(t, []byte("local"), data)
	fallback.AssertExpectations(t)
	objects.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_S3Path(t *testing.T) {
	fallback := new(mocks.MockFileReader)
	objects := new(mocks.MockObjectStorage)
	objects.On("Download", mock.Anything, "bucket", "dir/invoice.pdf").Return([]byte("remote"), nil)

	data, err := storage.NewRouter(fallback, objects).ReadFile(context.Background(), "s3://bucket/dir/invoice.pdf")
	require.NoError(t, err)

	assert.Equal(t, []byte("remote"), data)
	objects.AssertExpectations(t)
	fallback.AssertNotCalled(t, "ReadFile", mock.Anything, mock.Anything)
}

func TestRouter_S3PathWithoutStorage(t *testing.T) {
	fallback := new(mocks.MockFileReader)

	_, err := storage.NewRouter(fallback, nil).ReadFile(context.Background(), "s3://bucket/key.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSplitS3Path(t *testing.T) {
	bucket, key, err := storage.SplitS3Path("s3://docs/2026/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "docs", bucket)
	assert.Equal(t, "2026/a.pdf", key)

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, _, err := storage.SplitS3Path(bad)
		assert.Error(t, err, bad)
	}
}
