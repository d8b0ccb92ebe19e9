package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pageza/recipeverse/backend/config"
	"github.com/pageza/recipeverse/backend/internal/database"
	"github.com/pageza/recipeverse/backend/pkg/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "migrations", "Directory holding the SQL migrations")
	flag.Parse()

	log := logger.New(logger.Config{Level: "info", Format: "console"})
	defer func() { _ = log.Sync() }()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatal("DATABASE_URL is not set and configuration could not be loaded", zap.Error(err))
		}
		dsn = database.PostgresDSN(cfg)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if *rollback {
		name, err := database.RollbackLast(ctx, db, *dir, log)
		if errors.Is(err, database.ErrNoMigrations) {
			log.Info("no migrations to rollback")
			return
		}
		if err != nil {
			log.Fatal("rollback failed", zap.Error(err))
		}
		log.Info("successfully rolled back migration", zap.String("file", name))
		return
	}

	applied, err := database.ApplyMigrations(ctx, db, *dir, log)
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("all migrations applied", zap.Int("applied", len(applied)))
}
