package llm

import (
	"context"
	"fmt"
	"math"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAI is a generative model client backed by the OpenAI chat API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a new OpenAI client.
func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	config := openai.DefaultConfig(apiKey)
	client := openai.NewClientWithConfig(config)
	return &OpenAI{client: client, model: model}, nil
}

// Generate sends the prompt as a single user message and returns the model's
// text output verbatim.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		// The client omits a zero temperature from the request, so the
		// smallest nonzero value is the closest we can get to 0.
		Temperature: func() *float32 { t := float32(math.SmallestNonzeroFloat32); return &t }(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ LLM = (*OpenAI)(nil)
