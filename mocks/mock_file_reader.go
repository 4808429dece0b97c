package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockFileReader is a mock implementation of port.FileReader.
type MockFileReader struct {
	mock.Mock
}

func (m *MockFileReader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
