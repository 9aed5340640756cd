package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements ClientInterface using Google's Gemini models.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) ModelID() string { return c.model }

func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Response, error) {
	m := c.client.GenerativeModel(c.model)
	// Force JSON-only output; repair still handles token-limit truncation.
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(req.Temperature)
	m.SetTopP(0.5)
	m.SetTopK(20)
	if req.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(int32(req.MaxOutputTokens))
	}
	if req.SystemInstruction != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstruction)},
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return &Response{}, nil
	}

	out := &Response{
		Content: fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]),
	}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
