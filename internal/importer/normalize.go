package importer

import "github.com/wolfman30/leadflow/internal/leads"

// Normalize converts one raw row into a candidate using the given
// column mapping. Unmapped or missing fields become empty strings so
// batch submission always sees a fully shaped record. No trimming or
// casing is applied beyond what the source already carries.
func Normalize(row map[string]string, mapping Mapping) leads.Candidate {
	get := func(f Field) string {
		header, ok := mapping[f]
		if !ok {
			return ""
		}
		return row[header]
	}
	return leads.Candidate{
		ClientName:   get(FieldName),
		CompanyName:  get(FieldCompany),
		Email:        get(FieldEmail),
		Phone:        get(FieldPhone),
		Designation:  get(FieldTitle),
		Location:     get(FieldLocation),
		Requirements: get(FieldNotes),
	}
}

// ManualEntry is a directly authored record. It bypasses column
// mapping entirely.
type ManualEntry struct {
	ClientName   string `json:"client_name"`
	CompanyName  string `json:"company_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Designation  string `json:"designation"`
	Location     string `json:"location"`
	Requirements string `json:"requirements"`
	LinkedIn     string `json:"linkedin"`
}

// FromManualEntry shapes a manual entry into a candidate, folding the
// top-level linkedin input into the social block.
func FromManualEntry(e ManualEntry) leads.Candidate {
	return leads.Candidate{
		ClientName:   e.ClientName,
		CompanyName:  e.CompanyName,
		Email:        e.Email,
		Phone:        e.Phone,
		Designation:  e.Designation,
		Location:     e.Location,
		Requirements: e.Requirements,
		Social:       leads.Social{LinkedIn: e.LinkedIn},
	}
}
