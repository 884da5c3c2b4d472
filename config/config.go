package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LLMProvider      string // anthropic, openai, ollama
	AnthropicKey     string // API key (X-Api-Key header)
	AnthropicToken   string // OAuth token (Authorization: Bearer header)
	OpenAIKey        string
	LLMModel         string
	OllamaBaseURL    string
	DiscordToken     string
	DiscordWebhook   string
	DatabasePath     string
	UserTimezone     string
	MaxContextTokens int
	FocusMinutes     int
	CheckInCron      string
	CheckInMessage   string
	LogLevel         string
	LogFormat        string
}

// ConfigDir is where the installed service keeps its environment file.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nudge")
}

func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config")
}

func Load() *Config {
	_ = godotenv.Load()             // ignore error if no .env
	_ = godotenv.Load(ConfigFile()) // installed service config; never overrides .env

	return &Config{
		LLMProvider:      envOr("LLM_PROVIDER", "anthropic"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicToken:   os.Getenv("ANTHROPIC_AUTH_TOKEN"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		LLMModel:         os.Getenv("LLM_MODEL"),
		OllamaBaseURL:    envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		DiscordToken:     os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordWebhook:   os.Getenv("DISCORD_WEBHOOK_URL"),
		DatabasePath:     envOr("DATABASE_PATH", "./data.db"),
		UserTimezone:     envOr("USER_TIMEZONE", "Europe/Madrid"),
		MaxContextTokens: envInt("MAX_CONTEXT_TOKENS", 8000),
		FocusMinutes:     envInt("FOCUS_MINUTES", 25),
		CheckInCron:      envOr("CHECK_IN_CRON", "0 20 * * *"),
		CheckInMessage:   envOr("CHECK_IN_MESSAGE", "How did your day go? A quick evening check-in helps tomorrow start easier."),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFormat:        envOr("LOG_FORMAT", "text"),
	}
}

// Location returns the configured default timezone, or UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.UserTimezone)
	if err != nil {
		slog.Warn("invalid USER_TIMEZONE, falling back to UTC", "timezone", c.UserTimezone, "error", err)
		return time.UTC
	}
	return loc
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer setting", "key", key, "value", v)
		return fallback
	}
	return n
}
