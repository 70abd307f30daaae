// Package mapper converts raw worksheet rows into schema-aligned report
// records. Mapping is deliberately tolerant: short rows pad with empty
// strings, long rows drop extra cells, and dates that fail to parse stay as
// raw text. Business content is never validated here.
package mapper

import (
	"sort"
	"strings"

	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

// MapRow aligns one raw row to the schema and normalizes its date cell.
func MapRow(schema *model.Schema, row []string) *model.Record {
	values := make([]string, schema.Width())
	for i := range values {
		if i < len(row) {
			values[i] = row[i]
		}
	}
	values[schema.DateCol] = NormalizeDate(values[schema.DateCol])
	return &model.Record{Schema: schema, Values: values}
}

// MapRows maps every raw row.
func MapRows(schema *model.Schema, rows [][]string) []*model.Record {
	records := make([]*model.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, MapRow(schema, row))
	}
	return records
}

// UniqueSitesAndDates returns the sorted distinct site names and dates found
// in the mapped records. Blank cells are skipped.
func UniqueSitesAndDates(records []*model.Record) (sites, dates []string) {
	siteSet := map[string]struct{}{}
	dateSet := map[string]struct{}{}
	for _, r := range records {
		if s := strings.TrimSpace(r.Site()); s != "" {
			siteSet[s] = struct{}{}
		}
		if d := strings.TrimSpace(r.Date()); d != "" {
			dateSet[d] = struct{}{}
		}
	}
	for s := range siteSet {
		sites = append(sites, s)
	}
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(sites)
	sort.Strings(dates)
	return sites, dates
}

// Filter keeps records whose site and date are in the given sets. An empty
// set means "match everything" for that dimension.
func Filter(records []*model.Record, sites, dates []string) []*model.Record {
	siteSet := toSet(sites)
	dateSet := toSet(dates)

	var out []*model.Record
	for _, r := range records {
		if len(siteSet) > 0 {
			if _, ok := siteSet[strings.TrimSpace(r.Site())]; !ok {
				continue
			}
		}
		if len(dateSet) > 0 {
			if _, ok := dateSet[strings.TrimSpace(r.Date())]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
