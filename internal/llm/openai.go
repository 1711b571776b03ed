package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI is a Backend on the OpenAI chat completion API.
type OpenAI struct {
	client *openai.Client
	cfg    Config
}

// NewOpenAI creates an OpenAI backend with the provided configuration.
func NewOpenAI(cfg Config) *OpenAI {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.Prompt == nil {
		cfg.Prompt = DefaultPrompt()
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
	}
}

// Name implements Backend.
func (o *OpenAI) Name() string { return BackendOpenAI }

// Summarize implements Backend.
func (o *OpenAI) Summarize(ctx context.Context, texts []string) (string, error) {
	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.cfg.Prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: o.cfg.Prompt.BuildUserPrompt(texts)},
		},
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
	})
	if err != nil {
		return "", &BackendError{Backend: BackendOpenAI, Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &BackendError{Backend: BackendOpenAI, Err: errors.New("empty response")}
	}

	return resp.Choices[0].Message.Content, nil
}
