package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/leettrack/internal/models"
)

// MockProblemRepository is a mock implementation of repository.ProblemRepository
type MockProblemRepository struct {
	mock.Mock
}

func (m *MockProblemRepository) Load(ctx context.Context) ([]models.Problem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Problem), args.Error(1)
}

func (m *MockProblemRepository) Save(ctx context.Context, problems []models.Problem) error {
	args := m.Called(ctx, problems)
	return args.Error(0)
}
