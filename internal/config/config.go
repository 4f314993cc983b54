package config

import (
	"os"
	"time"
)

type Config struct {
	AppPort string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	SessionTTL         time.Duration
	SessionAbsoluteTTL time.Duration
	CookieSecure       bool
}

func Load() Config {

	cfg := Config{

		AppPort: envOr("APP_PORT", "8080"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SessionTTL:         envDuration("SESSION_TTL", 20*time.Minute),
		SessionAbsoluteTTL: envDuration("SESSION_ABSOLUTE_TTL", 12*time.Hour),
		CookieSecure:       os.Getenv("COOKIE_SECURE") != "false",
	}

	return cfg

}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
