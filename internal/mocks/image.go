package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipeverse/backend/internal/service"
)

// MockImageService is a mock implementation of the image service
type MockImageService struct {
	mock.Mock
}

var _ service.IImageService = (*MockImageService)(nil)

// UploadRecipeImage mocks the UploadRecipeImage method
func (m *MockImageService) UploadRecipeImage(ctx context.Context, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, data, contentType)
	return args.String(0), args.Error(1)
}
