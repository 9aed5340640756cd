package llm

import (
	"context"
	"fmt"
	"strings"
)

// Usage reports token consumption of one model call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Request is one generation request: exactly one system instruction and one
// user prompt, with a JSON-object response format implied by every client.
type Request struct {
	SystemInstruction string
	Prompt            string
	Temperature       float32
	MaxOutputTokens   int
}

// Response carries whatever the model produced. Content may be empty; the
// caller decides how to treat truncated, malformed or conversational output.
type Response struct {
	Content string
	Usage   Usage
}

type ClientInterface interface {
	ModelID() string
	Generate(ctx context.Context, req Request) (*Response, error)
}

// NewClient is a factory that creates either an OpenAI or Gemini client
// based on the configured provider.
func NewClient(provider, apiKey, model string) (ClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient(apiKey, model), nil
	case "gemini":
		return NewGeminiClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported model provider: %s", provider)
	}
}
