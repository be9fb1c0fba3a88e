package importer

import "strings"

// Field names one of the seven canonical lead fields a tabular column
// can map to.
type Field string

const (
	FieldName     Field = "name"
	FieldCompany  Field = "company"
	FieldEmail    Field = "email"
	FieldPhone    Field = "phone"
	FieldTitle    Field = "title"
	FieldLocation Field = "location"
	FieldNotes    Field = "notes"
)

// Fields lists the canonical fields in mapping precedence order.
var Fields = []Field{FieldName, FieldCompany, FieldEmail, FieldPhone, FieldTitle, FieldLocation, FieldNotes}

// headerRules is the ordered pattern table consulted by MapColumns.
// Kept as data rather than inline conditionals so new fields or
// locale-specific headers can be added without touching control flow.
var headerRules = []struct {
	field    Field
	patterns []string
}{
	{FieldName, []string{"name", "full name", "client name", "contact name", "person"}},
	{FieldCompany, []string{"company", "organization", "org"}},
	{FieldEmail, []string{"email", "e-mail"}},
	{FieldPhone, []string{"phone", "mobile", "telephone", "cell"}},
	{FieldTitle, []string{"title", "designation", "position", "role"}},
	{FieldLocation, []string{"location", "city", "address", "country", "region"}},
	{FieldNotes, []string{"requirements", "notes", "comments", "description"}},
}

// Mapping associates canonical fields with source column headers.
// Fields with no entry are unmapped.
type Mapping map[Field]string

// MapColumns proposes a best-effort mapping from the source's column
// headers. For each field, in precedence order, the first unclaimed
// header (left to right) matching one of the field's patterns wins;
// a header claimed by one field is never reused by another. The
// result is a default the caller may override before ingestion.
func MapColumns(headers []string) Mapping {
	mapping := make(Mapping, len(headerRules))
	claimed := make(map[int]bool, len(headers))

	for _, rule := range headerRules {
		for i, header := range headers {
			if claimed[i] || !matchesAny(header, rule.patterns) {
				continue
			}
			mapping[rule.field] = header
			claimed[i] = true
			break
		}
	}
	return mapping
}

func matchesAny(header string, patterns []string) bool {
	lowered := strings.ToLower(strings.TrimSpace(header))
	for _, p := range patterns {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

// Merge overlays non-empty override entries on top of m, returning a
// new mapping. An override of "" removes the field's mapping.
func (m Mapping) Merge(overrides map[Field]string) Mapping {
	out := make(Mapping, len(m)+len(overrides))
	for f, h := range m {
		out[f] = h
	}
	for f, h := range overrides {
		if h == "" {
			delete(out, f)
			continue
		}
		out[f] = h
	}
	return out
}
