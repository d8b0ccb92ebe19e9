package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipeverse/backend/internal/discovery"
	"github.com/pageza/recipeverse/backend/internal/model"
	"github.com/pageza/recipeverse/backend/internal/types"
)

// Author identifies who is creating a recipe.
type Author struct {
	UserID      string
	DisplayName string
	PhotoURL    string
}

// IAuthService defines the interface for token operations
type IAuthService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(identity types.TokenClaims, ttl time.Duration) (string, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, author Author, req *types.CreateRecipeRequest) (*model.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	ListRecipes(ctx context.Context) ([]discovery.Recipe, error)
	Discover(ctx context.Context, state discovery.FilterState) ([]discovery.RankedRecipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID, userID string) error
	RateRecipe(ctx context.Context, id uuid.UUID, userID string, rating int) (*model.Recipe, error)
	FavoriteRecipe(ctx context.Context, id uuid.UUID, userID string) error
	UnfavoriteRecipe(ctx context.Context, id uuid.UUID, userID string) error
	IsFavorite(ctx context.Context, id uuid.UUID, userID string) (bool, error)
	GetFavoriteRecipes(ctx context.Context, userID string) ([]*model.Recipe, error)
	GetUserRecipes(ctx context.Context, authorID string) ([]*model.Recipe, error)
	Similar(ctx context.Context, id uuid.UUID, limit int) ([]*model.Recipe, error)
	Nutrition(ctx context.Context, id uuid.UUID) (*types.NutritionReport, error)
}

// IImageService defines the interface for recipe image storage
type IImageService interface {
	UploadRecipeImage(ctx context.Context, data []byte, contentType string) (string, error)
}
