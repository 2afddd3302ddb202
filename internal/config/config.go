package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL  string
	ServerPort   string
	BaseURL      string
	FrontendURL  string
	EnableHSTS   bool
	OIDCProvider string
	RedisURL     string
	RabbitMQURL  string

	// Remote brand-analysis engine
	AnalysisAPIURL  string
	AnalysisAPIKey  string
	AnalysisAPITier string

	// Analyze workflow tuning
	CacheTTL          time.Duration
	PollMaxAttempts   int
	PollInterval      time.Duration
	AnalyzeMaxPerHour int

	// Email delivery
	ResendAPIKey string
	EmailFrom    string

	// AI copywriting for notification emails
	OpenAIKey string
	AIModel   string
	AIBaseURL string

	RabbitMQPrefetch int
	WorkerDebugMode  bool
	ServerDebugMode  bool
	OTELEnabled      bool
	OTELEndpoint     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),
		EnableHSTS:   getEnvBool("ENABLE_HSTS", false),
		OIDCProvider: getEnv("OIDC_PROVIDER", "cognito"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RabbitMQURL:  getEnv("RABBITMQ_URL", ""),

		AnalysisAPIURL:  getEnv("ANALYSIS_API_URL", ""),
		AnalysisAPIKey:  getEnv("ANALYSIS_API_KEY", ""),
		AnalysisAPITier: getEnv("ANALYSIS_API_TIER", "standard"),

		CacheTTL:          time.Duration(getEnvInt("CACHE_TTL_HOURS", 168)) * time.Hour,
		PollMaxAttempts:   getEnvInt("POLL_MAX_ATTEMPTS", 30),
		PollInterval:      time.Duration(getEnvInt("POLL_INTERVAL_MS", 2000)) * time.Millisecond,
		AnalyzeMaxPerHour: getEnvInt("ANALYZE_MAX_PER_HOUR", 10),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "Brain Index <notifications@brainindex.app>"),

		OpenAIKey: getEnv("OPENAI_API_KEY", ""),
		AIModel:   getEnv("AI_MODEL", ""),
		AIBaseURL: getEnv("AI_BASE_URL", ""),

		RabbitMQPrefetch: getEnvInt("RABBITMQ_PREFETCH", 1),
		WorkerDebugMode:  getEnvBool("WORKER_DEBUG_MODE", false),
		ServerDebugMode:  getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:      getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.AnalysisAPIURL == "" {
		return nil, fmt.Errorf("ANALYSIS_API_URL is required (remote brand-analysis engine)")
	}

	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required for email notification dispatch")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
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
