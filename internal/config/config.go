package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenRouter       = "openrouter"
	ProviderGemini           = "gemini"
	ProviderOpenAICompatible = "openai-compatible"
)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Storage. Empty DatabaseURL selects the in-memory store.
	DatabaseURL string

	// Redis. Empty RedisURL disables the conversation feed.
	RedisURL string

	// Upstream completion service
	UpstreamProvider       string
	UpstreamConcurrentReqs int
	OpenRouterAPIKey       string
	OpenRouterBaseURL      string
	OpenRouterModel        string
	OpenRouterReferer      string
	OpenRouterTitle        string
	GeminiAPIKey           string
	GeminiModel            string
	OpenAICompatBaseURL    string
	OpenAICompatAPIKey     string
	OpenAICompatModel      string

	// Tracing
	EnableTracing bool
	OTLPEndpoint  string

	ShutdownTimeout time.Duration

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                   getEnvOrDefault("PORT", "5000"),
		Env:                    getEnvOrDefault("ENV", "development"),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		DatabaseURL:            getEnvOrDefault("DATABASE_URL", ""),
		RedisURL:               getEnvOrDefault("REDIS_URL", ""),
		UpstreamProvider:       strings.ToLower(getEnvOrDefault("UPSTREAM_PROVIDER", ProviderOpenRouter)),
		UpstreamConcurrentReqs: getEnvAsIntOrDefault("UPSTREAM_CONCURRENT_REQUESTS", 5),
		OpenRouterBaseURL:      getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:        getEnvOrDefault("OPENROUTER_MODEL", "deepseek/deepseek-chat:free"),
		OpenRouterReferer:      getEnvOrDefault("OPENROUTER_REFERER", "https://replit.app"),
		OpenRouterTitle:        getEnvOrDefault("OPENROUTER_TITLE", "Black.GPT"),
		GeminiModel:            getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAICompatBaseURL:    getEnvOrDefault("OPENAI_COMPAT_BASE_URL", "http://localhost:11434/v1/"),
		OpenAICompatAPIKey:     getEnvOrDefault("OPENAI_COMPAT_API_KEY", "fake"),
		OpenAICompatModel:      getEnvOrDefault("OPENAI_COMPAT_MODEL", "llama3.1:8b"),
		EnableTracing:          getEnvAsBoolOrDefault("ENABLE_TRACING", false),
		OTLPEndpoint:           getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ShutdownTimeout:        getEnvAsDurationOrDefault("SHUTDOWN_TIMEOUT", 30*time.Second),
		FrontendURL:            getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	// The key for the selected provider is the only required secret.
	switch cfg.UpstreamProvider {
	case ProviderGemini:
		cfg.GeminiAPIKey = mustGetEnv("GEMINI_API_KEY")
	case ProviderOpenAICompatible:
	default:
		cfg.OpenRouterAPIKey = mustGetEnv("OPENROUTER_API_KEY")
	}

	return cfg
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
