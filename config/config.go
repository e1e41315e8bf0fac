package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath   string
	DatabaseURL    string
	EntriesTable   string
	ServerPort     string
	LogLevel       string
	Env            string
	AllowedOrigins []string
	WizardIdle     time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	wizardIdle, err := time.ParseDuration(getEnv("WIZARD_IDLE_TIMEOUT", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid WIZARD_IDLE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		DatabasePath:   getEnv("DATABASE_PATH", "overtime.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		EntriesTable:   getEnv("ENTRIES_TABLE", "overtime_entries"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Env:            getEnv("APP_ENV", "development"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		WizardIdle:     wizardIdle,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.EntriesTable) == "" {
		return fmt.Errorf("ENTRIES_TABLE must not be empty")
	}
	for _, r := range c.EntriesTable {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("ENTRIES_TABLE %q contains invalid characters", c.EntriesTable)
		}
	}
	if c.DatabaseURL == "" && c.DatabasePath == "" {
		return fmt.Errorf("one of DATABASE_PATH or DATABASE_URL is required")
	}
	if c.DatabaseURL != "" && !c.UsesPostgres() {
		return fmt.Errorf("DATABASE_URL must be a postgres:// URL")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
}

// UsesPostgres reports whether DATABASE_URL points at a PostgreSQL server.
func (c *Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
