package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"shortly-analytics/internal/logging"
)

type Config struct {
	Port        string
	DatabaseURL string
	BusURL      string // redis://host:port, host:port or nats://host:port
	BusTopic    string

	ShortenerURL     string // Base URL of the shortening service
	MetadataURL      string // Base URL of the metadata service
	ShortURLBase     string // Prefix used when rendering short links (QR codes)
	ShortenerTimeout time.Duration
	MetadataTimeout  time.Duration

	LogLevel  string
	LogFormat string

	RateLimitCreateRPS   float64 // Rate limit for POST /create (requests per second)
	RateLimitCreateBurst int     // Burst size for POST /create
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		logging.Debug().Msg("No .env file found, using environment variables or defaults")
	}

	shortenerURL := getEnv("SHORTENER_URL", getEnv("GO_SERVICE_URL", "http://localhost:8000"))

	return &Config{
		Port:                 getEnv("PORT", "5000"),
		DatabaseURL:          getEnv("DATABASE_URL", "file:analytics.db"),
		BusURL:               getEnv("BUS_URL", getEnv("REDIS_URL", "redis://localhost:6380")),
		BusTopic:             getEnv("BUS_TOPIC", "click_events"),
		ShortenerURL:         shortenerURL,
		MetadataURL:          getEnv("METADATA_URL", getEnv("NODE_SERVICE_URL", "http://localhost:3000")),
		ShortURLBase:         getEnv("SHORT_URL_BASE", shortenerURL),
		ShortenerTimeout:     getEnvDuration("SHORTENER_TIMEOUT", 5*time.Second),
		MetadataTimeout:      getEnvDuration("METADATA_TIMEOUT", 7*time.Second),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		RateLimitCreateRPS:   getEnvFloat("RATE_LIMIT_CREATE_RPS", 2),
		RateLimitCreateBurst: getEnvInt("RATE_LIMIT_CREATE_BURST", 5),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("750ms", "5s") or a plain number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}
