package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecipeFavorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_recipe_user" json:"recipe_id"`
	UserID    string    `gorm:"size:128;not null;uniqueIndex:idx_favorite_recipe_user;index" json:"user_id"`
}

func (RecipeFavorite) TableName() string {
	return "recipe_favorites"
}

func (f *RecipeFavorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// RecipeRating is one user's star rating of a recipe.
type RecipeRating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_recipe_user" json:"recipe_id"`
	UserID    string    `gorm:"size:128;not null;uniqueIndex:idx_rating_recipe_user" json:"user_id"`
	Value     float64   `gorm:"not null" json:"value"`
}

func (RecipeRating) TableName() string {
	return "recipe_ratings"
}

func (r *RecipeRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
