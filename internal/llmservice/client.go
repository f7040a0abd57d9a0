// Package llmservice wraps the optional generative-text collaborator. Every
// caller treats its failures as recoverable.
package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"previsit-triage/internal/config"
)

// Client generates text through a langchaingo chat model.
type Client struct {
	cfg *config.LLMConfig
}

func NewClient(cfg *config.LLMConfig) *Client {
	return &Client{cfg: cfg}
}

// Generate sends one system + human message pair and returns the first
// choice's content.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	llm, err := c.newModel()
	if err != nil {
		return "", err
	}

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextContent{Text: system}},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	log.Debug().Str("model", c.cfg.Model).Msg("generating content")
	res, err := llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("model %s returned no choices", c.cfg.Model)
	}
	return res.Choices[0].Content, nil
}

func (c *Client) newModel() (llms.Model, error) {
	switch c.cfg.Provider {
	case "ollama", "":
		return ollama.New(
			ollama.WithServerURL(c.cfg.BaseURL),
			ollama.WithModel(c.cfg.Model),
		)
	case "openai":
		return openai.New(
			openai.WithBaseURL(c.cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(c.cfg.Key, "Bearer ")),
			openai.WithModel(c.cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", c.cfg.Provider)
	}
}
