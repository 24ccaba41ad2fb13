package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port               int
	DatabaseURL        string
	NatsURL            string
	NatsToken          string
	LogLevel           string
	GroqAPIKey         string
	GroqBaseURL        string
	Model              string
	ChatTimeoutSeconds int
}

func Load() Config {
	return Config{
		Port:               envInt("FIELDLOG_PORT", 8460),
		DatabaseURL:        envStr("DATABASE_URL", ""),
		NatsURL:            envStr("NATS_URL", ""),
		NatsToken:          envStr("NATS_TOKEN", ""),
		LogLevel:           envStr("LOG_LEVEL", "info"),
		GroqAPIKey:         envStr("GROQ_API_KEY", ""),
		GroqBaseURL:        envStr("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		Model:              envStr("FIELDLOG_MODEL", "gemma2-9b-it"),
		ChatTimeoutSeconds: envInt("FIELDLOG_CHAT_TIMEOUT_SECONDS", 30),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
