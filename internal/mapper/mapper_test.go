package mapper

import (
	"reflect"
	"testing"

	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

func TestMapRow_FullRow(t *testing.T) {
	t.Parallel()

	row := []string{
		"01.02.2024", "SiteA", "DistrictX", "Work", "HR", "Supply", "Exec",
		"Comment", "", "", "", "", "", "",
	}
	r := MapRow(model.SchemaCurrent, row)

	if got := r.Date(); got != "2024-02-01" {
		t.Fatalf("Date = %q, want 2024-02-01", got)
	}
	if got := r.Site(); got != "SiteA" {
		t.Fatalf("Site = %q, want SiteA", got)
	}
	if got := r.Get("Work_Executed"); got != "Exec" {
		t.Fatalf("Work_Executed = %q, want Exec", got)
	}
	if got := r.Get("challenges"); got != "" {
		t.Fatalf("challenges = %q, want empty", got)
	}
}

func TestMapRow_ShortRows(t *testing.T) {
	t.Parallel()

	for _, schema := range []*model.Schema{model.SchemaCurrent, model.SchemaLegacy} {
		r := MapRow(schema, nil)
		if len(r.Values) != schema.Width() {
			t.Fatalf("%s: mapped width %d, want %d", schema.Name, len(r.Values), schema.Width())
		}
		for i, v := range r.Values {
			if v != "" {
				t.Fatalf("%s: column %d = %q, want empty", schema.Name, i, v)
			}
		}
	}
}

func TestMapRow_ExtraCellsIgnored(t *testing.T) {
	t.Parallel()

	row := make([]string, model.SchemaCurrent.Width()+3)
	row[0] = "2024-02-01"
	row[len(row)-1] = "overflow"
	r := MapRow(model.SchemaCurrent, row)
	if len(r.Values) != model.SchemaCurrent.Width() {
		t.Fatalf("mapped width %d, want %d", len(r.Values), model.SchemaCurrent.Width())
	}
}

func TestMapRow_LegacySiteFirst(t *testing.T) {
	t.Parallel()

	r := MapRow(model.SchemaLegacy, []string{"SiteB", "05/03/2024", "trenching"})
	if r.Site() != "SiteB" {
		t.Fatalf("Site = %q, want SiteB", r.Site())
	}
	if r.Date() != "2024-03-05" {
		t.Fatalf("Date = %q, want 2024-03-05", r.Date())
	}
	if r.Get("Civil_Works") != "trenching" {
		t.Fatalf("Civil_Works = %q", r.Get("Civil_Works"))
	}
}

func TestUniqueSitesAndDates(t *testing.T) {
	t.Parallel()

	records := MapRows(model.SchemaCurrent, [][]string{
		{"01.02.2024", "SiteB"},
		{"2024-02-01", "SiteA"},
		{"02.02.2024", "SiteA"},
		{"", ""},
	})
	sites, dates := UniqueSitesAndDates(records)
	if !reflect.DeepEqual(sites, []string{"SiteA", "SiteB"}) {
		t.Fatalf("sites = %v", sites)
	}
	if !reflect.DeepEqual(dates, []string{"2024-02-01", "2024-02-02"}) {
		t.Fatalf("dates = %v", dates)
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	records := MapRows(model.SchemaCurrent, [][]string{
		{"2024-02-01", "SiteA"},
		{"2024-02-01", "SiteB"},
		{"2024-02-02", "SiteA"},
	})

	got := Filter(records, []string{"SiteA"}, []string{"2024-02-01"})
	if len(got) != 1 || got[0].Site() != "SiteA" || got[0].Date() != "2024-02-01" {
		t.Fatalf("unexpected filter result: %d records", len(got))
	}

	// Empty selections match everything.
	if got := Filter(records, nil, nil); len(got) != 3 {
		t.Fatalf("empty filter kept %d records, want 3", len(got))
	}
}
