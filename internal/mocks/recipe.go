package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipeverse/backend/internal/discovery"
	"github.com/pageza/recipeverse/backend/internal/model"
	"github.com/pageza/recipeverse/backend/internal/service"
	"github.com/pageza/recipeverse/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

// CreateRecipe mocks the CreateRecipe method
func (m *MockRecipeService) CreateRecipe(ctx context.Context, author service.Author, req *types.CreateRecipeRequest) (*model.Recipe, error) {
	args := m.Called(ctx, author, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// GetRecipe mocks the GetRecipe method
func (m *MockRecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// ListRecipes mocks the ListRecipes method
func (m *MockRecipeService) ListRecipes(ctx context.Context) ([]discovery.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]discovery.Recipe), args.Error(1)
}

// Discover mocks the Discover method
func (m *MockRecipeService) Discover(ctx context.Context, state discovery.FilterState) ([]discovery.RankedRecipe, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]discovery.RankedRecipe), args.Error(1)
}

// DeleteRecipe mocks the DeleteRecipe method
func (m *MockRecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// RateRecipe mocks the RateRecipe method
func (m *MockRecipeService) RateRecipe(ctx context.Context, id uuid.UUID, userID string, rating int) (*model.Recipe, error) {
	args := m.Called(ctx, id, userID, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// FavoriteRecipe mocks the FavoriteRecipe method
func (m *MockRecipeService) FavoriteRecipe(ctx context.Context, id uuid.UUID, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// UnfavoriteRecipe mocks the UnfavoriteRecipe method
func (m *MockRecipeService) UnfavoriteRecipe(ctx context.Context, id uuid.UUID, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// IsFavorite mocks the IsFavorite method
func (m *MockRecipeService) IsFavorite(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

// GetFavoriteRecipes mocks the GetFavoriteRecipes method
func (m *MockRecipeService) GetFavoriteRecipes(ctx context.Context, userID string) ([]*model.Recipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Recipe), args.Error(1)
}

// GetUserRecipes mocks the GetUserRecipes method
func (m *MockRecipeService) GetUserRecipes(ctx context.Context, authorID string) ([]*model.Recipe, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Recipe), args.Error(1)
}

// Similar mocks the Similar method
func (m *MockRecipeService) Similar(ctx context.Context, id uuid.UUID, limit int) ([]*model.Recipe, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Recipe), args.Error(1)
}

// Nutrition mocks the Nutrition method
func (m *MockRecipeService) Nutrition(ctx context.Context, id uuid.UUID) (*types.NutritionReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.NutritionReport), args.Error(1)
}
