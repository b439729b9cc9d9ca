package embedding

import (
	"fmt"

	"github.com/docuchat-ai/docuchat/internal/config"
)

// NewModel creates an embedding provider from configuration.
func NewModel(cfg config.EmbeddingConfig) (Embedding, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIModel(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "gemini":
		return NewGoogleModel(cfg.Gemini.APIKey, cfg.Gemini.Model)
	case "ollama":
		return NewOllamaModel(cfg.Ollama.Model, cfg.Ollama.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
