package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"noilens/internal/completion"
)

// MockCompletionClient is a mock implementation of completion.Client.
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, req completion.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
