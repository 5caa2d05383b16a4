package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.Queue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueEnrichment(problemURL string) error {
	args := m.Called(problemURL)
	return args.Error(0)
}
