// Package config loads the user-service runtime settings from the environment,
// optionally seeded from a local .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// DatabaseURL selects the Postgres store. When empty the service keeps
	// users in memory.
	DatabaseURL string
	DBMaxConns  int

	// RedisAddr enables the read-model cache, event stream and presence
	// projection. When empty they are all disabled.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// CacheTTL bounds how long a cached user view may be served.
	CacheTTL time.Duration

	GinMode string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBMaxConns:    getEnvInt("DB_MAX_CONNS", 5),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 10*time.Minute),
		GinMode:       getEnv("GIN_MODE", "release"),
	}
}

func (c *Config) UsePostgres() bool { return c.DatabaseURL != "" }

func (c *Config) UseRedis() bool { return c.RedisAddr != "" }

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// getEnvDuration falls back on unparsable or non-positive values; a cache
// entry must always expire.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
