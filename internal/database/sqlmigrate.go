package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const rollbackSuffix = "_rollback.sql"

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(32) PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// ErrNoMigrations is returned by RollbackLast when nothing has been applied.
var ErrNoMigrations = errors.New("no migrations to rollback")

// MigrationFiles lists the forward migrations in dir, sorted by name.
// Files are named VERSION_NAME.sql; VERSION_NAME_rollback.sql undoes them.
func MigrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func migrationVersion(file string) string {
	return strings.SplitN(file, "_", 2)[0]
}

// ApplyMigrations runs every migration in dir that schema_migrations does
// not record yet, each in its own transaction. It returns the applied files.
func ApplyMigrations(ctx context.Context, db *sql.DB, dir string, log *zap.Logger) ([]string, error) {
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	files, err := MigrationFiles(dir)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, file := range files {
		version := migrationVersion(file)

		var exists bool
		if err := db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", version,
		).Scan(&exists); err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			log.Debug("migration already applied", zap.String("file", file))
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		err = inTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", file, err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", version, file,
			); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", file, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}

		log.Info("applied migration", zap.String("file", file))
		applied = append(applied, file)
	}
	return applied, nil
}

// RollbackLast undoes the most recently applied migration using its
// _rollback.sql companion and returns that migration's file name.
func RollbackLast(ctx context.Context, db *sql.DB, dir string, log *zap.Logger) (string, error) {
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return "", fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var version, name string
	err := db.QueryRowContext(ctx,
		"SELECT version, name FROM schema_migrations ORDER BY version DESC LIMIT 1",
	).Scan(&version, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoMigrations
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}

	rollbackPath := filepath.Join(dir, strings.TrimSuffix(name, ".sql")+rollbackSuffix)
	content, err := os.ReadFile(rollbackPath)
	if err != nil {
		return "", fmt.Errorf("failed to read rollback file: %w", err)
	}

	err = inTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = $1", version); err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	log.Info("rolled back migration", zap.String("file", name))
	return name, nil
}

func inTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
