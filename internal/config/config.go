package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret   string
	SessionTTLHours int

	TemplatesGlob string

	AllowedOrigins []string

	OTLPEndpoint string

	// fixed-window limit on the credential endpoints, per client IP
	LoginRateLimit         int
	LoginRateWindowSeconds int
}

func Load() Config {
	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 8080),
		DBURL: buildDBURL(),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SessionSecret:   getEnv("SESSION_SECRET", "dev-only-secret"),
		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24),

		TemplatesGlob: getEnv("TEMPLATES_GLOB", "web/templates/*.html"),

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),

		LoginRateLimit:         getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindowSeconds: getEnvInt("LOGIN_RATE_WINDOW_SECONDS", 60),
	}
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "diary")
	pass := getEnv("DB_PASSWORD", "diary")
	name := getEnv("DB_NAME", "diary")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}

	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
