package database

import (
	"context"
	"path/filepath"
	"testing"

	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipeverse/backend/config"
	"github.com/pageza/recipeverse/backend/internal/model"
)

func TestNewSQLiteAndAutoMigrate(t *testing.T) {
	cfg := &config.Config{
		Env:        config.Test,
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "recipes.db"),
	}

	db, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, HealthCheck(context.Background(), db))

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}

	recipe := model.Recipe{
		Title:       "Egg Fried Rice",
		Ingredients: model.JSONBStringArray{"egg", "rice"},
		AuthorID:    "author-1",
		Embedding:   pgvector.NewVector(make([]float32, model.EmbeddingDimensions)),
	}
	require.NoError(t, db.Create(&recipe).Error)

	var loaded model.Recipe
	require.NoError(t, db.First(&loaded, "id = ?", recipe.ID).Error)
	assert.Equal(t, model.JSONBStringArray{"egg", "rice"}, loaded.Ingredients)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "mysql"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewRedisClientWithoutConfig(t *testing.T) {
	client, err := NewRedisClient(&config.Config{}, zap.NewNop())
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(&config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", dsn)
}
