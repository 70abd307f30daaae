package summarizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

// Human-readable header variants mapped to canonical column names, beyond
// the mechanical lowercase/underscore normalization. Collected from real
// pasted reports.
var headerAliases = map[string]string{
	"site":                       "Site_Name",
	"site_names":                 "Site_Name",
	"comments_on_work":           "Comment_on_work",
	"comments_on_hse":            "Comment_on_HSE",
	"recommendation":             "Consultant_Recommandation",
	"recommendations":            "Consultant_Recommandation",
	"consultant_recommendation":  "Consultant_Recommandation",
	"consultant_recommendations": "Consultant_Recommandation",
	"non_compliance_work":        "Non_Compliant_work",
	"reaction_way_forword":       "Reaction_and_WayForword",
	"reaction_way_forward":       "Reaction_and_WayForword",
	"reaction_and_way_forward":   "Reaction_and_WayForword",
	"reaction_and_wayforword":    "Reaction_and_WayForword",
	"reaction_wayforward":        "Reaction_and_WayForword",
	"reaction_wayforword":        "Reaction_and_WayForword",
	"challenge":                  "challenges",
}

var (
	keyValuePattern     = regexp.MustCompile(`^\s*([A-Za-z0-9_\-/ ]+?)\s*[:\-]\s*(.*)$`)
	sectionSplitPattern = regexp.MustCompile(`\n\s*-{3,}\s*\n`)
	headerNormPattern   = regexp.MustCompile(`[^a-z0-9]+`)
)

// StructureLocally parses pasted report text into records without calling a
// hosted model. Sections separated by "---" lines become separate records;
// "Key: value" lines map through the header aliases; unrecognized lines
// accumulate under Comment_on_work.
func StructureLocally(schema *model.Schema, rawText string) ([]*model.Record, error) {
	sections := splitSections(rawText)
	if len(sections) == 0 {
		return nil, fmt.Errorf("raw report text is empty")
	}

	records := make([]*model.Record, 0, len(sections))
	for _, section := range sections {
		records = append(records, parseSection(schema, section))
	}
	return records, nil
}

func splitSections(rawText string) []string {
	stripped := strings.TrimSpace(rawText)
	if stripped == "" {
		return nil
	}
	var out []string
	for _, s := range sectionSplitPattern.Split(stripped, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseSection(schema *model.Schema, section string) *model.Record {
	rec := &model.Record{Schema: schema, Values: make([]string, schema.Width())}
	fallbackCol := schema.Index("Comment_on_work")
	if fallbackCol < 0 {
		fallbackCol = schema.Index("Comments")
	}
	current := -1

	for _, rawLine := range strings.Split(section, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if m := keyValuePattern.FindStringSubmatch(line); m != nil {
			col := resolveHeader(schema, m[1])
			if col < 0 {
				col = fallbackCol
			}
			appendValue(rec, col, m[2])
			current = col
			continue
		}

		if current >= 0 {
			appendValue(rec, current, line)
		} else {
			appendValue(rec, fallbackCol, line)
		}
	}
	return rec
}

// resolveHeader maps a raw key to a schema column index, or -1.
func resolveHeader(schema *model.Schema, rawKey string) int {
	normalized := strings.Trim(headerNormPattern.ReplaceAllString(strings.ToLower(rawKey), "_"), "_")
	if normalized == "" {
		return -1
	}
	if canonical, ok := headerAliases[normalized]; ok {
		return schema.Index(canonical)
	}
	for i, col := range schema.Columns {
		colNorm := strings.Trim(headerNormPattern.ReplaceAllString(strings.ToLower(col), "_"), "_")
		if colNorm == normalized {
			return i
		}
	}
	return -1
}

func appendValue(rec *model.Record, col int, addition string) {
	addition = strings.TrimSpace(addition)
	if col < 0 || addition == "" {
		return
	}
	if rec.Values[col] == "" {
		rec.Values[col] = addition
		return
	}
	rec.Values[col] += "\n" + addition
}
