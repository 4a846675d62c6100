package mocks

import (
	"context"
	"iter"

	"github.com/stretchr/testify/mock"

	"docsummary/internal/domain"
)

// MockSummaryService is a mock implementation of service.SummaryService.
type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) Summarize(ctx context.Context, req *domain.SummarizationRequest) (iter.Seq[domain.ProgressEvent], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(iter.Seq[domain.ProgressEvent]), args.Error(1)
}

func (m *MockSummaryService) Backends() []domain.BackendInfo {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.BackendInfo)
}

func (m *MockSummaryService) Ready() bool {
	args := m.Called()
	return args.Bool(0)
}
