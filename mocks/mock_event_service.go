package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/parselyze/parselyze-go/internal/domain"
	"github.com/parselyze/parselyze-go/internal/service"
)

// MockEventService is a mock implementation of service.EventService.
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Handle(ctx context.Context, evt *domain.WebhookEvent) (*service.EventOutcome, error) {
	args := m.Called(ctx, evt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EventOutcome), args.Error(1)
}
