package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-change-me"

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	GRPC     GRPCConfig
	Auth     AuthConfig
	Log      LogConfig
	// Location decides which events count as upcoming.
	Location *time.Location
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// HTTPConfig contains the REST API listener settings.
type HTTPConfig struct {
	Address string // e.g. ":8080"
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address        string        // gRPC server listen address (e.g., ":50051")
	HealthInterval time.Duration // how often the database is pinged for health status
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret  string        // JWT signing secret
	TokenTTL   time.Duration // lifetime of issued tokens
	BcryptCost int           // 0 means bcrypt.DefaultCost
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level slog.Level
}

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the process environment. Missing files are ignored; variables already set
// are not overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}

	// Validate critical settings
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}

	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load(devJWTSecret)
}

func load(defaultSecret string) (*Config, error) {
	ttl, err := getEnvDuration("TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	healthEvery, err := getEnvDuration("GRPC_HEALTH_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cost, err := getEnvInt("BCRYPT_COST", 0)
	if err != nil {
		return nil, err
	}
	if cost != 0 && (cost < 4 || cost > 31) {
		return nil, fmt.Errorf("invalid BCRYPT_COST %d: must be between 4 and 31", cost)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	loc := time.Local
	if tz := getEnv("TIMEZONE", ""); tz != "" {
		if loc, err = time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
	}

	return &Config{
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "app.db"),
		},
		HTTP: HTTPConfig{
			Address: getEnv("HTTP_ADDRESS", ":8080"),
		},
		GRPC: GRPCConfig{
			Address:        getEnv("GRPC_ADDRESS", ":50051"),
			HealthInterval: healthEvery,
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", defaultSecret),
			TokenTTL:   ttl,
			BcryptCost: cost,
		},
		Log:      LogConfig{Level: level},
		Location: loc,
	}, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

// getEnvDuration retrieves an environment variable as a time.Duration ("90m", "168h").
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("invalid duration for %s: must be positive", key)
		}
		return d, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, gRPC: %s, TokenTTL: %s, Log: %s, TZ: %s, Auth: *** (masked) ***}",
		c.Database.Path, c.HTTP.Address, c.GRPC.Address, c.Auth.TokenTTL, c.Log.Level, c.Location)
}
