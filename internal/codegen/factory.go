package codegen

import (
	"context"
	"fmt"

	"github.com/markode-co/MarkodeAITool/config"
)

// NewBackendFromConfig selects the backend named by cfg.Provider.
func NewBackendFromConfig(ctx context.Context, cfg config.LLMConfig) (Backend, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIBackend(cfg.APIKey, cfg.Model, cfg.BaseURL, nil), nil
	case "gemini":
		return NewGeminiBackend(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL, nil)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
