package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// Ollama is a generative model client backed by a local Ollama server.
type Ollama struct {
	client *ollama.Client
	model  string
}

// NewOllama creates a new Ollama client. An empty baseURL defaults to the
// standard local endpoint.
func NewOllama(model, baseURL string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	hc := &http.Client{
		Timeout: 120 * time.Second,
	}
	client := ollama.NewClient(parsedURL, hc)

	return &Ollama{client: client, model: model}, nil
}

// Generate sends the prompt without streaming and returns the full response.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	var b strings.Builder

	err := o.client.Generate(ctx, &ollama.GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": 0.0,
		},
	}, func(resp ollama.GenerateResponse) error {
		b.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate with ollama: %w", err)
	}

	return b.String(), nil
}

var _ LLM = (*Ollama)(nil)
