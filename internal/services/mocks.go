package services

import (
	"context"

	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
	"github.com/stretchr/testify/mock"
)

type (
	MockVCSClient struct {
		mock.Mock
	}

	MockReviewGenerator struct {
		mock.Mock
	}
)

func (m *MockVCSClient) GetPR(ctx context.Context, prNumber int) (models.PRData, error) {
	args := m.Called(ctx, prNumber)
	return args.Get(0).(models.PRData), args.Error(1)
}

func (m *MockVCSClient) PostComment(ctx context.Context, prNumber int, body string) error {
	args := m.Called(ctx, prNumber, body)
	return args.Error(0)
}

func (m *MockReviewGenerator) GenerateReview(ctx context.Context, prompt string) (models.ModelResponse, error) {
	args := m.Called(ctx, prompt)
	return args.Get(0).(models.ModelResponse), args.Error(1)
}
