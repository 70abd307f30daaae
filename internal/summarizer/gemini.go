package summarizer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

// GeminiClient is the Gemini-backed provider, selected with
// SUMMARY_PROVIDER=gemini and a GEMINI_API_KEY.
type GeminiClient struct {
	client *genai.Client
	model  string
	schema *model.Schema
}

// NewGeminiClient creates a Gemini provider.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, schema *model.Schema) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if modelName == "" || strings.Contains(modelName, "/") {
		// A HF-style model id left over in config means "use the default".
		modelName = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: modelName, schema: schema}, nil
}

// Summarize implements Provider.
func (c *GeminiClient) Summarize(ctx context.Context, reportText string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(summaryPreamble+reportText), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("Gemini returned an empty summary")
	}
	return text, nil
}

// Structure implements Provider.
func (c *GeminiClient) Structure(ctx context.Context, rawText string) ([]*model.Record, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("raw report text is empty")
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(structurePrompt(c.schema, rawText)), nil)
	if err != nil {
		return nil, fmt.Errorf("Gemini generate: %w", err)
	}
	return parseModelJSON(c.schema, resp.Text())
}
