// Package llm provides the language-model backends used to summarize messages.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blockedby/crypto-digest/internal/config"
)

// Backend names accepted by NewBackend.
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

var (
	// ErrUnknownBackend is returned for a backend name other than openai or gemini.
	ErrUnknownBackend = errors.New("unknown ai backend")
	// ErrMissingCredential is returned when the selected backend has no API key.
	ErrMissingCredential = errors.New("missing ai credential")
)

// Backend produces a free-text analysis of a set of message bodies.
type Backend interface {
	Name() string
	Summarize(ctx context.Context, texts []string) (string, error)
}

// BackendError wraps a failed backend call.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Config holds the configuration shared by the backends.
type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Prompt      *PromptConfig
}

// NewBackend builds the named backend from the application config.
// It fails before any network call when the name or credential is invalid.
func NewBackend(ctx context.Context, cfg *config.Config, name string) (Backend, error) {
	base := Config{
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: float32(cfg.LLMTemperature),
		Timeout:     time.Duration(cfg.LLMTimeoutSec) * time.Second,
		Prompt:      DefaultPrompt(),
	}

	switch name {
	case BackendOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrMissingCredential)
		}
		base.APIKey = cfg.OpenAIAPIKey
		base.BaseURL = cfg.OpenAIBaseURL
		base.Model = cfg.OpenAIModel
		return NewOpenAI(base), nil
	case BackendGemini:
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("%w: GOOGLE_API_KEY is not set", ErrMissingCredential)
		}
		base.APIKey = cfg.GoogleAPIKey
		base.Model = cfg.GeminiModel
		return NewGemini(ctx, base)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}
