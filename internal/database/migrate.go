package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/recipeverse/backend/internal/model"
)

// Models lists every table owned by the service.
func Models() []interface{} {
	return []interface{}{
		&model.Recipe{},
		&model.RecipeRating{},
		&model.RecipeFavorite{},
	}
}

// AutoMigrate creates or updates the schema from the gorm models. Postgres
// needs the pgvector extension before the recipes table can be created.
func AutoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to install pgvector extension: %w", err)
		}
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}
	return nil
}
