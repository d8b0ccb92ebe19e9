package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		errs = append(errs, ValidationError{"server_port", fmt.Sprintf("must be numeric, got %q", cfg.ServerPort)})
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"jwt_secret", "is required"})
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			errs = append(errs, ValidationError{"db_host", "is required for postgres"})
		}
		if cfg.DBName == "" {
			errs = append(errs, ValidationError{"db_name", "is required for postgres"})
		}
		if cfg.DBUser == "" {
			errs = append(errs, ValidationError{"db_user", "is required for postgres"})
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"sqlite_path", "is required for sqlite"})
		}
		if cfg.Env == Production {
			errs = append(errs, ValidationError{"db_driver", "sqlite is not allowed in production"})
		}
	default:
		errs = append(errs, ValidationError{"db_driver", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.Env == Production && cfg.DBPassword == "" {
		errs = append(errs, ValidationError{"db_password", "secret is required in production"})
	}

	if cfg.DiscoveryCacheTTL < 0 {
		errs = append(errs, ValidationError{"discovery_cache_ttl", "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
