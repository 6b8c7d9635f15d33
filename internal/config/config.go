// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/fxdesk/swapbook-backend/internal/domain"
)

// Config holds application configuration
type Config struct {
	Port      int
	APIToken  string
	LogLevel  string
	LogPretty bool
	DayCount  domain.DayCount
	DBConnStr string
}

// Load reads configuration from the environment. A local .env file is
// loaded first if present so development runs need no exported vars.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is the normal case in containers.
	_ = godotenv.Load()

	dayCount, err := domain.ParseDayCount(getEnv("DAY_COUNT", string(domain.DayCountAct360)))
	if err != nil {
		return nil, fmt.Errorf("invalid DAY_COUNT: %w", err)
	}

	cfg := &Config{
		Port:      getEnvAsInt("PORT", 8080),
		APIToken:  getEnv("API_TOKEN", "dev-token"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", false),
		DayCount:  dayCount,
		DBConnStr: loadDBConnStr(),
	}

	return cfg, nil
}

// loadDBConnStr prefers an explicit DB_CONN_STR and falls back to
// assembling one from individual vars (Docker friendly).
func loadDBConnStr() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	dbname := getEnv("DB_NAME", "swapbook")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
