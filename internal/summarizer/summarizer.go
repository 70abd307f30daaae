// Package summarizer turns mapped report records into prose via a hosted
// language model, and structures raw pasted report text back into records.
// Two hosted backends exist (Hugging Face inference and Gemini) plus a local
// line parser used when no provider is configured.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/iranzi17/ibc-15kv-reporting/internal/config"
	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

// FallbackMessage is the fixed operator-facing text shown when the hosted
// model cannot be reached. Kept stable so operators recognize it.
const FallbackMessage = "Summary not available. Please check your Hugging Face token or try again later."

// Provider is a hosted language model backend.
type Provider interface {
	// Summarize condenses the given daily report text into a weekly summary.
	Summarize(ctx context.Context, reportText string) (string, error)
	// Structure maps raw pasted report text into schema-aligned records.
	Structure(ctx context.Context, rawText string) ([]*model.Record, error)
}

// NewProvider selects a backend from the settings. Returns nil (no error)
// when the chosen backend has no credentials; callers then use the local
// structurer and report summaries as unavailable.
func NewProvider(ctx context.Context, s *config.Settings, creds *config.Credentials, schema *model.Schema) (Provider, error) {
	switch s.SummaryProvider {
	case "gemini":
		if creds.GeminiAPIKey == "" {
			return nil, nil
		}
		return NewGeminiClient(ctx, creds.GeminiAPIKey, s.SummaryModel, schema)
	case "hf", "":
		if creds.HFToken == "" {
			return nil, nil
		}
		return NewHFClient(creds.HFToken, s.SummaryModel, schema), nil
	default:
		return nil, fmt.Errorf("unknown summary provider %q", s.SummaryProvider)
	}
}

const summaryPreamble = "You are an experienced electrical engineering consultant. Summarize the " +
	"following daily site reports into a natural, professional, and human-sounding weekly progress summary:\n\n"

func structurePrompt(schema *model.Schema, rawText string) string {
	return fmt.Sprintf(`You are a meticulous assistant that converts contractor site reports into
structured data. Map the provided text into the following columns exactly:
%s.

Respond ONLY with valid JSON. If there is a single report return a JSON object
with those keys. If multiple reports are present return a JSON array of objects
using the same keys. Leave any unavailable field as an empty string. Do not
include extra commentary.

Raw report:
%s`, strings.Join(schema.Columns, ", "), rawText)
}

// BuildReportText flattens records into the plain text fed to Summarize,
// one labelled block per report.
func BuildReportText(records []*model.Record) string {
	var b strings.Builder
	for i, rec := range records {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		for _, col := range rec.Schema.Columns {
			v := strings.TrimSpace(rec.Get(col))
			if v == "" {
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", strings.ReplaceAll(col, "_", " "), v)
		}
	}
	return b.String()
}
