package types

import (
	"github.com/google/uuid"

	"github.com/pageza/recipeverse/backend/internal/discovery"
)

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients" binding:"required"`
	Steps       []string `json:"steps"`
	Veg         bool     `json:"veg"`
	Stars       int      `json:"stars"`
	ImageURL    string   `json:"imageUrl"`
	DisplayName string   `json:"displayName"`
	PhotoURL    string   `json:"photoURL"`
}

// RateRecipeRequest represents the request body for rating a recipe
type RateRecipeRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// EstimateNutritionRequest asks for nutrition of an unsaved ingredient list.
type EstimateNutritionRequest struct {
	Ingredients []string `json:"ingredients"`
}

// NutritionReport pairs macro estimates with the derived health score.
type NutritionReport struct {
	Nutrition discovery.NutritionTotals  `json:"nutrition"`
	Health    discovery.HealthAssessment `json:"health"`
}

// RecipeSummary is one entry of the discovery listing.
type RecipeSummary struct {
	discovery.Recipe
	MatchScore *float64 `json:"matchScore,omitempty"`
	MatchText  string   `json:"matchText,omitempty"`
}

// UserRecipesResponse is what a user sees on their profile page.
type UserRecipesResponse struct {
	Favorites       []uuid.UUID        `json:"favorites"`
	FavoriteRecipes []discovery.Recipe `json:"favoriteRecipes"`
	Recipes         []discovery.Recipe `json:"recipes"`
}

// RecipeDetail is the single-recipe view, including the viewer's own
// rating and favorite flag when they are signed in.
type RecipeDetail struct {
	discovery.Recipe
	AuthorDisplayName string                     `json:"authorDisplayName,omitempty"`
	AuthorPhotoURL    string                     `json:"authorPhotoURL,omitempty"`
	RatingCount       int                        `json:"ratingCount"`
	Nutrition         discovery.NutritionTotals  `json:"nutrition"`
	Health            discovery.HealthAssessment `json:"health"`
	HealthScore       string                     `json:"healthScore"`
	MyRating          *float64                   `json:"myRating,omitempty"`
	IsFavorite        bool                       `json:"isFavorite"`
}

// UploadImageResponse carries the stored image's public URL.
type UploadImageResponse struct {
	ImageURL string `json:"imageUrl"`
}
