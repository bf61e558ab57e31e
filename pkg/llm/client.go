package llm

import (
	"context"
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateJSON asks the model for a JSON document and returns it with any
	// markdown fences removed.
	GenerateJSON(ctx context.Context, instructions, prompt string) (string, error)
	Close() error
}

type Config struct {
	Provider    Provider
	APIKey      string
	Model       string
	Temperature float32
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.Model == "" {
			cfg.Model = "gpt-4o-mini"
		}
		return NewOpenAIClient(cfg), nil
	case ProviderGemini, "":
		if cfg.Model == "" {
			cfg.Model = "gemini-1.5-flash"
		}
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
