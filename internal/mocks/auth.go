package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipeverse/backend/internal/service"
	"github.com/pageza/recipeverse/backend/internal/types"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

var _ service.IAuthService = (*MockAuthService)(nil)

func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

func (m *MockAuthService) GenerateToken(identity types.TokenClaims, ttl time.Duration) (string, error) {
	args := m.Called(identity, ttl)
	return args.String(0), args.Error(1)
}
