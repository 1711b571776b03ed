// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// telegram
	TGApiID         int
	TGApiHash       string
	TGPhone         string
	TGSessionFile   string
	TGSessionString string

	// llm
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	GoogleAPIKey   string
	GeminiModel    string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeoutSec  int

	// files
	DataDir      string
	ChannelsFile string

	// nats
	NatsURL string

	// logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is loaded first when present;
// variables already set in the process environment take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		TGApiID:         getEnvInt("TG_API_ID", 0),
		TGApiHash:       getEnv("TG_API_HASH", ""),
		TGPhone:         getEnv("TG_PHONE", ""),
		TGSessionFile:   getEnv("TG_SESSION_FILE", "telegram_scraper.session"),
		TGSessionString: getEnv("TG_SESSION_STRING", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		GoogleAPIKey:    getEnv("GOOGLE_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		LLMMaxTokens:    getEnvInt("LLM_MAX_TOKENS", 1500),
		LLMTemperature:  getEnvFloat("LLM_TEMPERATURE", 0.3),
		LLMTimeoutSec:   getEnvInt("LLM_TIMEOUT_SECONDS", 120),
		DataDir:         getEnv("DATA_DIR", "."),
		ChannelsFile:    getEnv("CHANNELS_FILE", ""),
		NatsURL:         getEnv("NATS_URL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", "./logs/crypto-digest.log"),
	}

	return cfg, nil
}

// ValidateTelegram checks that the collection source credentials are present.
func (c *Config) ValidateTelegram() error {
	var missing []string
	if c.TGApiID == 0 {
		missing = append(missing, "TG_API_ID")
	}
	if c.TGApiHash == "" {
		missing = append(missing, "TG_API_HASH")
	}
	if len(missing) > 0 {
		return errors.New("missing telegram credentials: " + strings.Join(missing, ", "))
	}
	return nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
