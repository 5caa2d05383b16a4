package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/leettrack/internal/leetcode"
)

// MockLeetCodeClient is a mock implementation of leetcode.ClientInterface
type MockLeetCodeClient struct {
	mock.Mock
}

func (m *MockLeetCodeClient) FetchQuestion(ctx context.Context, slug string) (*leetcode.Question, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leetcode.Question), args.Error(1)
}
