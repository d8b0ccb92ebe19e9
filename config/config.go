package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment `mapstructure:"-"`

	// Server configuration
	ServerPort string `mapstructure:"server_port"`
	ServerHost string `mapstructure:"server_host"`

	// Database configuration
	DBDriver    string `mapstructure:"db_driver"`
	DBHost      string `mapstructure:"db_host"`
	DBPort      string `mapstructure:"db_port"`
	DBUser      string `mapstructure:"db_user"`
	DBPassword  string `mapstructure:"db_password"`
	DBName      string `mapstructure:"db_name"`
	DBSSLMode   string `mapstructure:"db_ssl_mode"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`

	// Redis configuration
	RedisURL      string `mapstructure:"redis_url"`
	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     string `mapstructure:"redis_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	// JWT configuration
	JWTSecret string `mapstructure:"jwt_secret"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Object storage for uploaded recipe images
	S3BucketName string `mapstructure:"s3_bucket_name"`
	AWSRegion    string `mapstructure:"aws_region"`

	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	DiscoveryCacheTTL  time.Duration `mapstructure:"discovery_cache_ttl"`
}

// secretKeys are read from Docker secrets when not present in the environment.
var secretKeys = []string{"db_user", "db_password", "jwt_secret", "redis_password"}

// LoadConfig reads configuration from an optional file (CONFIG_FILE), the
// environment and Docker secrets, in increasing order of precedence for
// secrets, then validates it.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Env = env

	if err := loadSecrets(cfg, env); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("server_host", "0.0.0.0")

	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "recipeverse")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("sqlite_path", "recipeverse.db")
	v.SetDefault("auto_migrate", true)

	v.SetDefault("redis_url", "")
	v.SetDefault("redis_host", "")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("jwt_secret", "")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("s3_bucket_name", "")
	v.SetDefault("aws_region", "us-east-1")

	v.SetDefault("cors_allowed_origins", "http://localhost:5173")
	v.SetDefault("discovery_cache_ttl", "5m")
}

// loadSecrets fills sensitive values that the environment left empty. CI
// runners expose them as TEST_* variables; every other environment reads
// Docker secrets.
func loadSecrets(cfg *Config, env Environment) error {
	targets := map[string]*string{
		"db_user":        &cfg.DBUser,
		"db_password":    &cfg.DBPassword,
		"jwt_secret":     &cfg.JWTSecret,
		"redis_password": &cfg.RedisPassword,
	}

	for _, name := range secretKeys {
		dst := targets[name]
		if *dst != "" {
			continue
		}
		if env == CI {
			*dst = os.Getenv("TEST_" + strings.ToUpper(name))
			continue
		}
		*dst = readSecret(name)
	}

	if env == CI && cfg.JWTSecret == "" {
		return fmt.Errorf("TEST_JWT_SECRET environment variable is required in CI environment")
	}
	return nil
}

// CORSOrigins returns the configured origins as a list.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
