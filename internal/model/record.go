package model

// Record is one report row aligned to a schema. Values always has exactly
// Schema.Width() entries; absent trailing cells are empty strings.
type Record struct {
	Schema *Schema
	Values []string
}

// Get returns the value of a named column, or "" when the schema does not
// carry that column.
func (r *Record) Get(column string) string {
	idx := r.Schema.Index(column)
	if idx < 0 || idx >= len(r.Values) {
		return ""
	}
	return r.Values[idx]
}

// Date returns the (normalized) date cell.
func (r *Record) Date() string {
	return r.Values[r.Schema.DateCol]
}

// Site returns the site name cell.
func (r *Record) Site() string {
	return r.Values[r.Schema.SiteCol]
}

// Context flattens the record into a column-name keyed map for template
// rendering.
func (r *Record) Context() map[string]string {
	ctx := make(map[string]string, len(r.Schema.Columns))
	for i, col := range r.Schema.Columns {
		ctx[col] = r.Values[i]
	}
	return ctx
}
