package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini is a Backend on the Gemini API.
type Gemini struct {
	client        *genai.Client
	model         string
	contentConfig *genai.GenerateContentConfig
	cfg           Config
}

// NewGemini creates a Gemini backend. No request is made until Summarize.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", ErrMissingCredential)
	}
	if cfg.Prompt == nil {
		cfg.Prompt = DefaultPrompt()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	temperature := cfg.Temperature
	contentConfig := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: cfg.Prompt.System}}},
	}
	if cfg.MaxTokens > 0 {
		contentConfig.MaxOutputTokens = int32(cfg.MaxTokens)
	}

	return &Gemini{
		client:        client,
		model:         cfg.Model,
		contentConfig: contentConfig,
		cfg:           cfg,
	}, nil
}

// Name implements Backend.
func (g *Gemini) Name() string { return BackendGemini }

// Summarize implements Backend.
func (g *Gemini) Summarize(ctx context.Context, texts []string) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: g.cfg.Prompt.BuildUserPrompt(texts)}},
	}}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, g.contentConfig)
	if err != nil {
		return "", &BackendError{Backend: BackendGemini, Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &BackendError{Backend: BackendGemini, Err: errors.New("empty response")}
	}
	return text, nil
}
