package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

const (
	defaultHFBaseURL = "https://api-inference.huggingface.co/models"

	// structureModel is the instruct model used for report structuring; the
	// summary model is configurable because deployments kept switching it.
	structureModel = "mistralai/Mistral-7B-Instruct"
)

// HFClient calls the Hugging Face inference API with a bearer token.
type HFClient struct {
	token        string
	baseURL      string
	summaryModel string
	schema       *model.Schema
	httpClient   *http.Client

	maxRetries int
	backoff    time.Duration
}

// NewHFClient builds a client. summaryModel may be empty to use the
// long-standing bart-large-cnn default.
func NewHFClient(token, summaryModel string, schema *model.Schema) *HFClient {
	if summaryModel == "" {
		summaryModel = "facebook/bart-large-cnn"
	}
	return &HFClient{
		token:        token,
		baseURL:      defaultHFBaseURL,
		summaryModel: summaryModel,
		schema:       schema,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		maxRetries:   3,
		backoff:      time.Second,
	}
}

type hfRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

type hfResult struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
	Error         string `json:"error"`
}

// Summarize implements Provider.
func (c *HFClient) Summarize(ctx context.Context, reportText string) (string, error) {
	results, err := c.infer(ctx, c.summaryModel, hfRequest{
		Inputs: summaryPreamble + reportText,
	})
	if err != nil {
		return "", err
	}
	if results[0].SummaryText == "" {
		return "", fmt.Errorf("inference response carried no summary_text")
	}
	return results[0].SummaryText, nil
}

// Structure implements Provider.
func (c *HFClient) Structure(ctx context.Context, rawText string) ([]*model.Record, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("raw report text is empty")
	}

	prompt := structurePrompt(c.schema, rawText)
	results, err := c.infer(ctx, structureModel, hfRequest{
		Inputs:     prompt,
		Parameters: map[string]any{"temperature": 0.0, "max_new_tokens": 800},
		Options:    map[string]any{"wait_for_model": true},
	})
	if err != nil {
		return nil, err
	}

	generated := results[0].GeneratedText
	if generated == "" {
		return nil, fmt.Errorf("inference response carried no generated_text")
	}
	// Instruct endpoints echo the prompt back in front of the completion.
	generated = strings.TrimPrefix(generated, prompt)

	return parseModelJSON(c.schema, generated)
}

// infer posts one inference request, retrying rate limits and upstream
// hiccups with exponential backoff.
func (c *HFClient) infer(ctx context.Context, modelID string, reqBody hfRequest) ([]hfResult, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(modelID))

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << uint(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("inference request failed: %w", err)
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return decodeHFResults(body)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("inference API status %d: %s", resp.StatusCode, hfErrorMessage(body))
			continue
		default:
			return nil, fmt.Errorf("inference API status %d: %s", resp.StatusCode, hfErrorMessage(body))
		}
	}
	return nil, lastErr
}

func decodeHFResults(body []byte) ([]hfResult, error) {
	var results []hfResult
	if err := json.Unmarshal(body, &results); err != nil {
		// Error payloads come back as a bare object.
		var single hfResult
		if err2 := json.Unmarshal(body, &single); err2 == nil && single.Error != "" {
			return nil, fmt.Errorf("inference API error: %s", single.Error)
		}
		return nil, fmt.Errorf("unexpected inference response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("empty inference response")
	}
	if results[0].Error != "" {
		return nil, fmt.Errorf("inference API error: %s", results[0].Error)
	}
	return results, nil
}

func hfErrorMessage(body []byte) string {
	var single hfResult
	if err := json.Unmarshal(body, &single); err == nil && single.Error != "" {
		return single.Error
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
