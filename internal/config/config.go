package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDeployment = "gpt-4o-mini"
	defaultAPIVersion = "2024-12-01-preview"

	// Mode is reported by /health to describe where credentials come from.
	Mode = "Direct Environment Variables"
)

type Config struct {
	OpenAIKey        string
	OpenAIEndpoint   string
	OpenAIDeployment string
	OpenAIAPIVersion string

	Port           string
	MetricsPort    string
	RequestTimeout time.Duration

	LogLevel  string
	LogFormat string

	RedisURL    string
	CacheTTL    time.Duration
	DatabaseURL string
}

func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	return &Config{
		OpenAIKey:        os.Getenv("AZURE_OPENAI_API_KEY"),
		OpenAIEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		OpenAIDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", defaultDeployment),
		OpenAIAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", defaultAPIVersion),
		Port:             getEnv("PORT", "8000"),
		MetricsPort:      getEnv("METRICS_PORT", "9090"),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 230*time.Second),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		RedisURL:         os.Getenv("REDIS_URL"),
		CacheTTL:         getDuration("CACHE_TTL", 24*time.Hour),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
	}
}

// AIConfigured reports whether both provider credentials are present.
func (c *Config) AIConfigured() bool {
	return c.OpenAIKey != "" && c.OpenAIEndpoint != ""
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getDuration(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	parsed, err := time.ParseDuration(v)
	if err != nil || parsed <= 0 {
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", d)
		return d
	}
	return parsed
}
