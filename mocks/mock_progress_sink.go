package mocks

import (
	"github.com/stretchr/testify/mock"

	"docsummary/internal/domain"
)

// MockProgressSink is a mock implementation of port.ProgressSink.
type MockProgressSink struct {
	mock.Mock
}

func (m *MockProgressSink) Report(stage domain.Stage, message string) {
	m.Called(stage, message)
}

// MockStatusRegister is a mock implementation of port.StatusRegister.
type MockStatusRegister struct {
	mock.Mock
}

func (m *MockStatusRegister) Set(stage, message string) {
	m.Called(stage, message)
}

func (m *MockStatusRegister) Get() domain.StatusSnapshot {
	args := m.Called()
	return args.Get(0).(domain.StatusSnapshot)
}
