package render

// Signatory is the consultant/contractor block stamped at the bottom of a
// report.
type Signatory struct {
	ConsultantName  string
	ConsultantTitle string
	ContractorName  string
	ContractorTitle string
}

// Signatories per discipline. The worksheet discipline column selects one of
// these; unknown disciplines fall back to the configured default.
var signatories = map[string]Signatory{
	"Civil": {
		ConsultantName:  "IRANZI Prince Jean Claude",
		ConsultantTitle: "Civil Engineer",
		ContractorName:  "Issac HABIMANA",
		ContractorTitle: "Electrical Engineer",
	},
	"Electrical": {
		ConsultantName:  "Alexis IVUGIZA",
		ConsultantTitle: "Electrical Engineer",
		ContractorName:  "Issac HABIMANA",
		ContractorTitle: "Electrical Engineer",
	},
}

// SignatoryFor resolves the signatory block for a discipline with fallback.
func SignatoryFor(discipline, fallback string) Signatory {
	if s, ok := signatories[discipline]; ok {
		return s
	}
	return signatories[fallback]
}
