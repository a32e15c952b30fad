package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// CasdoorConfig holds the identity provider settings.
type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

// BootstrapAdminConfig seeds the first approved administrator.
type BootstrapAdminConfig struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Config is loaded once at startup from the environment (optionally via a
// .env file in development).
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	KafkaBrokers []string
	KafkaTopic   string

	Casdoor        CasdoorConfig
	BootstrapAdmin BootstrapAdminConfig
}

// LoadConfig reads the environment. A missing .env file is not an error;
// production supplies variables directly.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "user-notifications"),

		Casdoor: CasdoorConfig{
			Endpoint:     os.Getenv("CASDOOR_ENDPOINT"),
			ClientID:     os.Getenv("CASDOOR_CLIENT_ID"),
			ClientSecret: os.Getenv("CASDOOR_CLIENT_SECRET"),
			Cert:         os.Getenv("CASDOOR_CERT"),
			Organization: os.Getenv("CASDOOR_ORGANIZATION"),
			Application:  os.Getenv("CASDOOR_APPLICATION"),
		},

		BootstrapAdmin: BootstrapAdminConfig{
			Username:  getEnv("BOOTSTRAP_ADMIN_USERNAME", "admin"),
			Email:     getEnv("BOOTSTRAP_ADMIN_EMAIL", "admin@example.com"),
			Password:  os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
			FirstName: getEnv("BOOTSTRAP_ADMIN_FIRST_NAME", "System"),
			LastName:  getEnv("BOOTSTRAP_ADMIN_LAST_NAME", "Administrator"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.BootstrapAdmin.Password == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("BOOTSTRAP_ADMIN_PASSWORD is required in production")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
