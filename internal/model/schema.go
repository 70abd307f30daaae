package model

// Schema is the fixed, ordered list of columns a deployment expects in the
// report worksheet. Two variants shipped over the project's lifetime and both
// remain selectable; they disagree on column order, so the date and site
// positions are carried explicitly.
type Schema struct {
	Name    string
	Columns []string
	DateCol int
	SiteCol int
}

// SchemaCurrent is the 14-column layout used by the current worksheet.
var SchemaCurrent = &Schema{
	Name: "current",
	Columns: []string{
		"Date",
		"Site_Name",
		"District",
		"Work",
		"Human_Resources",
		"Supply",
		"Work_Executed",
		"Comment_on_work",
		"Another_Work_Executed",
		"Comment_on_HSE",
		"Consultant_Recommandation",
		"Non_Compliant_work",
		"Reaction_and_WayForword",
		"challenges",
	},
	DateCol: 0,
	SiteCol: 1,
}

// SchemaLegacy is the original 6-column layout. Note the site-first order.
var SchemaLegacy = &Schema{
	Name: "legacy",
	Columns: []string{
		"Site_Name",
		"Date",
		"Civil_Works",
		"General_Recommendation",
		"Comments",
		"challenges",
	},
	DateCol: 1,
	SiteCol: 0,
}

// SchemaByName resolves a schema variant name. Unknown names fall back to the
// current schema.
func SchemaByName(name string) *Schema {
	if name == SchemaLegacy.Name {
		return SchemaLegacy
	}
	return SchemaCurrent
}

// Width returns the number of columns.
func (s *Schema) Width() int {
	return len(s.Columns)
}

// Index returns the position of a column name, or -1 if the schema does not
// carry it.
func (s *Schema) Index(column string) int {
	for i, c := range s.Columns {
		if c == column {
			return i
		}
	}
	return -1
}
