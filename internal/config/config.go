package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string // sqlite, postgres, mysql
	DatabasePath   string // sqlite file path
	DatabaseURL    string // postgres/mysql connection string
	MigrationsPath string

	JWTSecret       string
	SessionDuration time.Duration

	// Coin cost per hint tier. Tier 1 is free.
	HintCostSyntax  int
	HintCostAutoFix int

	// AWS SES progress report emails. Reports are disabled when the
	// sender address is empty.
	AWSRegion         string
	ReportFromAddress string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./codeclash.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		SessionDuration: 24 * time.Hour,

		HintCostSyntax:  getEnvInt("HINT_COST_SYNTAX", 5),
		HintCostAutoFix: getEnvInt("HINT_COST_AUTOFIX", 15),

		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		ReportFromAddress: getEnv("REPORT_FROM_ADDRESS", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
