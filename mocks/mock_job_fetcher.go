package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/parselyze/parselyze-go/internal/domain"
)

// MockJobFetcher is a mock implementation of port.JobFetcher.
type MockJobFetcher struct {
	mock.Mock
}

func (m *MockJobFetcher) Get(ctx context.Context, jobID string) (*domain.JobRecord, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobRecord), args.Error(1)
}
