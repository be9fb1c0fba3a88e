package leads

import (
	"time"

	"github.com/wolfman30/leadflow/internal/campaigns"
)

// Social holds optional social profile links for a lead.
type Social struct {
	LinkedIn string `json:"linkedin,omitempty"`
}

// Candidate is a normalized, not-yet-persisted record awaiting
// submission. Every field is optional; a candidate without a client
// name and without an email is not a lead and is dropped before it
// reaches the store.
type Candidate struct {
	ClientName   string `json:"client_name"`
	CompanyName  string `json:"company_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Designation  string `json:"designation"`
	Location     string `json:"location"`
	Requirements string `json:"requirements"`
	Social       Social `json:"social"`
}

// Identified reports whether the candidate carries enough identifying
// data to become a lead.
func (c Candidate) Identified() bool {
	return c.ClientName != "" || c.Email != ""
}

// Status is the lead sub-status used for campaign statistics.
type Status string

const (
	StatusNew       Status = "new"
	StatusCold      Status = "cold"
	StatusWarm      Status = "warm"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusCold, StatusWarm, StatusQualified, StatusConverted, StatusLost:
		return true
	}
	return false
}

// Lead is a persisted candidate.
type Lead struct {
	ID           string    `json:"id"`
	CampaignID   string    `json:"campaign_id"`
	OrgID        string    `json:"org_id"`
	ClientName   string    `json:"client_name"`
	CompanyName  string    `json:"company_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Designation  string    `json:"designation"`
	Location     string    `json:"location"`
	Requirements string    `json:"requirements"`
	Social       Social    `json:"social"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// BatchResult is what one batch submission reports back: per-batch
// counts and the campaign with its recomputed statistics.
type BatchResult struct {
	Created  int                 `json:"created"`
	Errors   int                 `json:"errors"`
	Campaign *campaigns.Campaign `json:"campaign"`
}

// ListFilter narrows ListByCampaign results.
type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}
