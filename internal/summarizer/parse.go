package summarizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

// parseModelJSON extracts the JSON payload from a model response, tolerating
// markdown code fences, and normalizes it into schema-aligned records.
// Missing keys become empty strings; both a single object and an array of
// objects are accepted.
func parseModelJSON(schema *model.Schema, content string) ([]*model.Record, error) {
	cleaned := strings.TrimSpace(content)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = stripCodeFences(cleaned)
	}

	var payload any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("model response is not valid JSON: %w", err)
	}

	var items []any
	switch v := payload.(type) {
	case map[string]any:
		items = []any{v}
	case []any:
		items = v
	default:
		return nil, fmt.Errorf("model response must be a JSON object or array of objects")
	}

	records := make([]*model.Record, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("each report must be a JSON object")
		}
		values := make([]string, schema.Width())
		for i, col := range schema.Columns {
			if v, ok := obj[col]; ok && v != nil {
				values[i] = fmt.Sprintf("%v", v)
			}
		}
		records = append(records, &model.Record{Schema: schema, Values: values})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("model response contained no reports")
	}
	return records, nil
}

func stripCodeFences(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "```") {
			lines = lines[:i]
			break
		}
	}
	return strings.Join(lines, "\n")
}
