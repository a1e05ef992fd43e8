package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// HTTP client (LLM)
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache. An empty RedisAddr keeps everything in process memory.
	CacheTTL  time.Duration
	RedisAddr string

	// Observability. An empty endpoint disables trace export.
	OTLPEndpoint string

	// Chat advisor (OpenAI-compatible). An empty key disables the advisor.
	LLMAPIURL        string
	LLMAPIKey        string
	LLMModel         string
	LLMTimeout       time.Duration
	ChatHistoryLimit int

	// Simulation defaults
	DefaultHorizonMonths int
	DefaultTakeHomeRate  float64
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 2),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 200*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 16),

		CacheTTL:  getEnvDuration("CACHE_TTL", 10*time.Minute),
		RedisAddr: getEnv("REDIS_ADDR", ""),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		LLMAPIURL:        getEnv("LLM_API_URL", "https://api.openai.com"),
		LLMAPIKey:        getEnv("LLM_API_KEY", ""),
		LLMModel:         getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:       getEnvDuration("LLM_TIMEOUT", 30*time.Second),
		ChatHistoryLimit: getEnvInt("CHAT_HISTORY_LIMIT", 10),

		DefaultHorizonMonths: getEnvInt("DEFAULT_HORIZON_MONTHS", 600),
		DefaultTakeHomeRate:  getEnvFloat("DEFAULT_TAKE_HOME_RATE", 0.75),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
