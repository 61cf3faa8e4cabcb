// Package config provides configuration for the chat service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the chat service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Session store
	SessionStore string // sqlite, redis or memory
	DatabaseURL  string
	RedisAddr    string
	RedisTTL     time.Duration

	// Remote assistant service. The credential is injected from the
	// environment; there is no compiled-in default.
	OpenAIBaseURL string
	OpenAIAPIKey  string
	AssistantID   string
	ChatModel     string
	PollInterval  time.Duration
	PollTimeout   time.Duration

	// Interaction analytics sink (optional)
	SupabaseURL     string
	SupabaseAnonKey string

	// Localization
	DefaultLocale string

	// Message admission
	PolicyPath       string
	MaxMessageLength int
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnvInt("HTTP_PORT", 8080),
		SessionStore:     getEnv("SESSION_STORE", "sqlite"),
		DatabaseURL:      getEnv("DATABASE_URL", "file:chatd.db?cache=shared&mode=rwc"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisTTL:         time.Duration(getEnvInt("REDIS_TTL_MS", 86400000)) * time.Millisecond,
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		AssistantID:      getEnv("ASSISTANT_ID", ""),
		ChatModel:        getEnv("CHAT_MODEL", "gpt-4o-mini"),
		PollInterval:     time.Duration(getEnvInt("POLL_INTERVAL_MS", 1000)) * time.Millisecond,
		PollTimeout:      time.Duration(getEnvInt("POLL_TIMEOUT_MS", 90000)) * time.Millisecond,
		SupabaseURL:      getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:  getEnv("SUPABASE_ANON_KEY", ""),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "fr"),
		PolicyPath:       getEnv("POLICY_PATH", ""),
		MaxMessageLength: getEnvInt("MAX_MESSAGE_LENGTH", 4000),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
