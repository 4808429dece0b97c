package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockMetricsRecorder is a mock implementation of port.MetricsRecorder.
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) ObserveRequest(endpoint, outcome string, d time.Duration) {
	m.Called(endpoint, outcome, d)
}
