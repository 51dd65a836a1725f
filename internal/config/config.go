package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	GenesisTime   time.Time
	BlockInterval time.Duration
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "ledgeruser"),
		DBPassword:    getEnv("DB_PASSWORD", "ledgerpassword"),
		DBName:        getEnv("DB_NAME", "governance_ledger"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		GenesisTime:   getEnvTime("GENESIS_TIME", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		BlockInterval: getEnvSeconds("BLOCK_INTERVAL_SECONDS", 5*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvTime parses an RFC3339 timestamp from the environment.
func getEnvTime(key string, defaultValue time.Time) time.Time {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return defaultValue
	}
	return t
}

// getEnvSeconds parses a duration given in whole seconds.
func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		return defaultValue
	}
	return time.Duration(secs) * time.Second
}
