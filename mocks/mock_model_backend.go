package mocks

import (
	"context"
	"iter"

	"github.com/stretchr/testify/mock"

	"docsummary/internal/domain"
	"docsummary/internal/port"
)

// MockModelBackend is a mock implementation of port.ModelBackend.
type MockModelBackend struct {
	mock.Mock
}

func (m *MockModelBackend) Name() domain.ModelChoice {
	args := m.Called()
	return args.Get(0).(domain.ModelChoice)
}

func (m *MockModelBackend) PromptStyle() domain.PromptStyle {
	args := m.Called()
	return args.Get(0).(domain.PromptStyle)
}

func (m *MockModelBackend) Summarize(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockStreamingBackend is a mock implementation of port.StreamingBackend that
// also accepts a per-request model.
type MockStreamingBackend struct {
	MockModelBackend
}

func (m *MockStreamingBackend) SummarizeStream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	args := m.Called(ctx, prompt)
	return args.Get(0).(iter.Seq2[string, error])
}

func (m *MockStreamingBackend) WithModel(model string) port.ModelBackend {
	args := m.Called(model)
	return args.Get(0).(port.ModelBackend)
}

// MockBackendResolver is a mock implementation of port.BackendResolver.
type MockBackendResolver struct {
	mock.Mock
}

func (m *MockBackendResolver) Resolve(choice string) port.ModelBackend {
	args := m.Called(choice)
	return args.Get(0).(port.ModelBackend)
}

func (m *MockBackendResolver) Backends() []domain.BackendInfo {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.BackendInfo)
}

func (m *MockBackendResolver) AnyConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}
