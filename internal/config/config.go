package config

import (
	"os"
	"strconv"
)

// Config holds process configuration read from the environment. Every
// binary loads .env first (godotenv) and then calls Load.
type Config struct {
	Port        string
	FrontendURL string
	AppURL      string

	// WorkerURL is the base URL of the external enrichment worker.
	WorkerURL string

	// InternalSecret authenticates worker callbacks and the scheduled
	// digest trigger.
	InternalSecret string

	JWTSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	// DigestSchedule is a cron expression, weekly Monday 09:00 UTC by
	// default.
	DigestSchedule string

	AnthropicAPIKey string
	OpenAIAPIKey    string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		AppURL:      getEnv("APP_URL", "http://localhost:3000"),

		WorkerURL:      getEnv("WORKER_URL", "http://localhost:8000"),
		InternalSecret: getEnv("INTERNAL_SECRET", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getIntEnv("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "Market Analyser <digest@localhost>"),

		DigestSchedule: getEnv("DIGEST_SCHEDULE", "0 9 * * MON"),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
