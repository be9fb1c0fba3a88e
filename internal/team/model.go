package team

import "time"

// Member is an assignable user surfaced to campaign workload
// distribution. Identities are opaque to the campaign engine.
type Member struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Territories []string  `json:"territories"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
