package llm

import (
	"context"
	"fmt"

	"github.com/docuchat-ai/docuchat/internal/config"
)

// LLM is the interface every generative model client implements. All
// implementations decode deterministically (temperature 0) so repeated
// queries over the same corpus give reproducible answers.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewClient creates a generative model client from configuration.
func NewClient(cfg config.LLMConfig) (LLM, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "gemini":
		return NewGemini(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	case "ollama":
		return NewOllama(cfg.Ollama.Model, cfg.Ollama.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
