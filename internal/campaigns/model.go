package campaigns

import (
	"strings"
	"time"
)

// Method is how a campaign acquires its leads.
type Method string

const (
	MethodManual         Method = "manual"
	MethodCSVImport      Method = "csv_import"
	MethodScrape         Method = "scrape"
	MethodThirdPartySync Method = "third_party_sync"
)

// Valid reports whether the method is one of the known values.
func (m Method) Valid() bool {
	switch m {
	case MethodManual, MethodCSVImport, MethodScrape, MethodThirdPartySync:
		return true
	}
	return false
}

// Priority of a campaign.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// AssignmentRule controls how leads are split across assignees.
type AssignmentRule string

const (
	RuleManual     AssignmentRule = "manual"
	RuleRoundRobin AssignmentRule = "round_robin"
	RuleEqual      AssignmentRule = "equal"
	RuleTerritory  AssignmentRule = "territory"
	RuleScore      AssignmentRule = "score"
)

func (r AssignmentRule) Valid() bool {
	switch r {
	case RuleManual, RuleRoundRobin, RuleEqual, RuleTerritory, RuleScore:
		return true
	}
	return false
}

// Role of a team member on a campaign.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleMember, RoleViewer:
		return true
	}
	return false
}

// Assignee is a team member holding a workload share of a campaign.
// UserRef is an opaque identity owned by the team boundary.
type Assignee struct {
	UserRef    string `json:"user_ref"`
	Role       Role   `json:"role"`
	Percentage int    `json:"percentage"`
}

// Stats are derived lead counters per sub-status. They are recomputed
// by the lead store after every batch insert and are read-only here.
type Stats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Cold      int `json:"cold"`
	Warm      int `json:"warm"`
	Qualified int `json:"qualified"`
	Converted int `json:"converted"`
	Lost      int `json:"lost"`
}

// Campaign is a named container that accumulates imported lead records
// over its lifecycle.
type Campaign struct {
	ID               string         `json:"id"`
	OrgID            string         `json:"org_id"`
	Name             string         `json:"name"`
	Method           Method         `json:"method"`
	LeadCategory     string         `json:"lead_category"`
	Tags             []string       `json:"tags"`
	SourceNotes      string         `json:"source_notes"`
	ExpectedCount    int            `json:"expected_count"`
	Priority         Priority       `json:"priority"`
	Status           Status         `json:"status"`
	AssignmentRule   AssignmentRule `json:"assignment_rule"`
	ExternalEventRef *string        `json:"external_event_ref,omitempty"`
	Assignees        []Assignee     `json:"assignees"`
	Stats            Stats          `json:"stats"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Clone returns a deep copy so repository callers never share slices.
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	out := *c
	out.Tags = append([]string(nil), c.Tags...)
	out.Assignees = append([]Assignee(nil), c.Assignees...)
	if c.ExternalEventRef != nil {
		ref := *c.ExternalEventRef
		out.ExternalEventRef = &ref
	}
	return &out
}

// CreateRequest is the payload for creating a campaign draft.
type CreateRequest struct {
	OrgID            string         `json:"-"`
	Name             string         `json:"name"`
	Method           Method         `json:"method"`
	LeadCategory     string         `json:"lead_category"`
	Tags             []string       `json:"tags"`
	SourceNotes      string         `json:"source_notes"`
	ExpectedCount    int            `json:"expected_count"`
	Priority         Priority       `json:"priority"`
	AssignmentRule   AssignmentRule `json:"assignment_rule"`
	ExternalEventRef *string        `json:"external_event_ref,omitempty"`
}

// Validate checks required fields and fills enum defaults.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.OrgID) == "" {
		return ErrMissingOrgID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if r.Method == "" {
		r.Method = MethodManual
	}
	if !r.Method.Valid() {
		return ErrInvalidMethod
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !r.Priority.Valid() {
		return ErrInvalidPriority
	}
	if r.AssignmentRule == "" {
		r.AssignmentRule = RuleManual
	}
	if !r.AssignmentRule.Valid() {
		return ErrInvalidAssignmentRule
	}
	if r.ExpectedCount < 0 {
		return ErrNegativeExpectedCount
	}
	r.Tags = uniqueTags(r.Tags)
	return nil
}

// UpdateRequest carries partial structural edits. Nil fields are left
// unchanged.
type UpdateRequest struct {
	Name             *string         `json:"name,omitempty"`
	Method           *Method         `json:"method,omitempty"`
	LeadCategory     *string         `json:"lead_category,omitempty"`
	Tags             *[]string       `json:"tags,omitempty"`
	SourceNotes      *string         `json:"source_notes,omitempty"`
	ExpectedCount    *int            `json:"expected_count,omitempty"`
	Priority         *Priority       `json:"priority,omitempty"`
	AssignmentRule   *AssignmentRule `json:"assignment_rule,omitempty"`
	ExternalEventRef *string         `json:"external_event_ref,omitempty"`
}

// Structural reports whether the update touches fields that are only
// editable while the campaign is in draft or paused.
func (r *UpdateRequest) Structural() bool {
	return r.Name != nil || r.Method != nil || r.LeadCategory != nil ||
		r.Tags != nil || r.AssignmentRule != nil
}

// Validate checks the populated fields.
func (r *UpdateRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return ErrNameRequired
	}
	if r.Method != nil && !r.Method.Valid() {
		return ErrInvalidMethod
	}
	if r.Priority != nil && !r.Priority.Valid() {
		return ErrInvalidPriority
	}
	if r.AssignmentRule != nil && !r.AssignmentRule.Valid() {
		return ErrInvalidAssignmentRule
	}
	if r.ExpectedCount != nil && *r.ExpectedCount < 0 {
		return ErrNegativeExpectedCount
	}
	return nil
}

// apply merges the update into the campaign in place.
func (r *UpdateRequest) apply(c *Campaign) {
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.Method != nil {
		c.Method = *r.Method
	}
	if r.LeadCategory != nil {
		c.LeadCategory = *r.LeadCategory
	}
	if r.Tags != nil {
		c.Tags = uniqueTags(*r.Tags)
	}
	if r.SourceNotes != nil {
		c.SourceNotes = *r.SourceNotes
	}
	if r.ExpectedCount != nil {
		c.ExpectedCount = *r.ExpectedCount
	}
	if r.Priority != nil {
		c.Priority = *r.Priority
	}
	if r.AssignmentRule != nil {
		c.AssignmentRule = *r.AssignmentRule
	}
	if r.ExternalEventRef != nil {
		if *r.ExternalEventRef == "" {
			c.ExternalEventRef = nil
		} else {
			ref := *r.ExternalEventRef
			c.ExternalEventRef = &ref
		}
	}
}

// uniqueTags preserves first occurrence order and drops blanks.
func uniqueTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
