package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"DATA_DIR", "OPENAI_MODEL", "GEMINI_MODEL", "LLM_MAX_TOKENS", "TG_SESSION_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, 1500, cfg.LLMMaxTokens)
	assert.Equal(t, "telegram_scraper.session", cfg.TGSessionFile)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATA_DIR", "/custom/path")
	t.Setenv("TG_API_ID", "12345")
	t.Setenv("LLM_TEMPERATURE", "0.9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/custom/path", cfg.DataDir)
	assert.Equal(t, 12345, cfg.TGApiID)
	assert.InDelta(t, 0.9, cfg.LLMTemperature, 1e-9)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NATS_URL=nats://dotenv:4222\n"), 0644))
	t.Setenv("NATS_URL", "")
	os.Unsetenv("NATS_URL")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "nats://dotenv:4222", cfg.NatsURL)
}

func TestValidateTelegram(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateTelegram()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TG_API_ID")
	assert.Contains(t, err.Error(), "TG_API_HASH")

	cfg = &Config{TGApiID: 1, TGApiHash: "hash"}
	assert.NoError(t, cfg.ValidateTelegram())
}

func TestLoadChannels_Defaults(t *testing.T) {
	lists, err := LoadChannels("")
	require.NoError(t, err)

	assert.NotEmpty(t, lists.Trading)
	assert.NotEmpty(t, lists.News)
	assert.Contains(t, lists.Trading, "Cryptonews")
	assert.Contains(t, lists.News, "Cryptonews", "a channel may be on both lists")
}

func TestParseChannels(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantTrading []string
		wantNews    []string
		wantErr     bool
	}{
		{
			name:        "strips @ and blanks",
			yaml:        "trading:\n  - '@alpha'\n  - ' '\nnews:\n  - beta\n",
			wantTrading: []string{"alpha"},
			wantNews:    []string{"beta"},
		},
		{
			name:        "news only",
			yaml:        "news: [beta, gamma]\n",
			wantTrading: []string{},
			wantNews:    []string{"beta", "gamma"},
		},
		{
			name:    "empty lists",
			yaml:    "trading: []\nnews: []\n",
			wantErr: true,
		},
		{
			name:    "malformed",
			yaml:    "trading: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lists, err := ParseChannels([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrading, lists.Trading)
			assert.Equal(t, tt.wantNews, lists.News)
		})
	}
}

func TestLoadChannels_MissingFile(t *testing.T) {
	_, err := LoadChannels(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
