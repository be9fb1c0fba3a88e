package campaigns

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows List results. Zero values mean no filtering.
type ListFilter struct {
	Status Status
	Method Method
	Search string
}

// Overview is the workspace-level dashboard rollup.
type Overview struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Draft      int `json:"draft"`
	TotalLeads int `json:"total_leads"`
}

// Repository defines the interface for campaign storage.
type Repository interface {
	Create(ctx context.Context, req *CreateRequest) (*Campaign, error)
	GetByID(ctx context.Context, orgID, id string) (*Campaign, error)
	List(ctx context.Context, orgID string, filter ListFilter) ([]*Campaign, error)
	Update(ctx context.Context, orgID, id string, req *UpdateRequest) (*Campaign, error)
	SetStatus(ctx context.Context, orgID, id string, event Event) (*Campaign, error)
	Duplicate(ctx context.Context, orgID, id string) (*Campaign, error)
	Delete(ctx context.Context, orgID, id string) error
	SetAssignees(ctx context.Context, orgID, id string, assignees []Assignee, autoDistribute bool) (*Campaign, error)
	SetAssigneePercentage(ctx context.Context, orgID, id, userRef string, percentage int) (*Campaign, error)
	ReplaceStats(ctx context.Context, orgID, id string, stats Stats) (*Campaign, error)
	Overview(ctx context.Context, orgID string) (*Overview, error)
}

// InMemoryRepository is the non-persistent Repository used by tests and
// local development.
type InMemoryRepository struct {
	mu        sync.RWMutex
	campaigns map[string]*Campaign
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{campaigns: make(map[string]*Campaign)}
}

// Create stores a new draft campaign.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateRequest) (*Campaign, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &Campaign{
		ID:               uuid.New().String(),
		OrgID:            req.OrgID,
		Name:             strings.TrimSpace(req.Name),
		Method:           req.Method,
		LeadCategory:     req.LeadCategory,
		Tags:             req.Tags,
		SourceNotes:      req.SourceNotes,
		ExpectedCount:    req.ExpectedCount,
		Priority:         req.Priority,
		Status:           StatusDraft,
		AssignmentRule:   req.AssignmentRule,
		ExternalEventRef: req.ExternalEventRef,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	r.mu.Lock()
	r.campaigns[c.ID] = c
	r.mu.Unlock()

	return c.Clone(), nil
}

// GetByID fetches a campaign scoped to the org.
func (r *InMemoryRepository) GetByID(ctx context.Context, orgID, id string) (*Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, err := r.locked(orgID, id)
	if err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// List returns org campaigns, newest first.
func (r *InMemoryRepository) List(ctx context.Context, orgID string, filter ListFilter) ([]*Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]*Campaign, 0)
	for _, c := range r.campaigns {
		if c.OrgID != orgID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Method != "" && c.Method != filter.Method {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update applies partial edits, gating structural fields by status.
func (r *InMemoryRepository) Update(ctx context.Context, orgID, id string, req *UpdateRequest) (*Campaign, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.locked(orgID, id)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusArchived {
		return nil, ErrArchived
	}
	if req.Structural() && !CanEditStructure(c.Status) {
		return nil, ErrStructureLocked
	}

	req.apply(c)
	c.UpdatedAt = time.Now().UTC()
	return c.Clone(), nil
}

// SetStatus applies a lifecycle event. Publishing additionally verifies
// that manual workload shares balance.
func (r *InMemoryRepository) SetStatus(ctx context.Context, orgID, id string, event Event) (*Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.locked(orgID, id)
	if err != nil {
		return nil, err
	}

	next, err := Transition(c.Status, event)
	if err != nil {
		return nil, err
	}
	if event == EventPublish {
		if err := validateActivation(c); err != nil {
			return nil, err
		}
	}

	c.Status = next
	c.UpdatedAt = time.Now().UTC()
	return c.Clone(), nil
}

// Duplicate clones campaign configuration into a fresh draft. Leads and
// stats never travel with the copy.
func (r *InMemoryRepository) Duplicate(ctx context.Context, orgID, id string) (*Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, err := r.locked(orgID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dup := src.Clone()
	dup.ID = uuid.New().String()
	dup.Name = src.Name + " (copy)"
	dup.Status = StatusDraft
	dup.Stats = Stats{}
	dup.CreatedAt = now
	dup.UpdatedAt = now

	r.campaigns[dup.ID] = dup
	return dup.Clone(), nil
}

// Delete removes the campaign.
func (r *InMemoryRepository) Delete(ctx context.Context, orgID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.locked(orgID, id); err != nil {
		return err
	}
	delete(r.campaigns, id)
	return nil
}

// SetAssignees replaces the assignee list. When autoDistribute is true
// (or no explicit share was supplied) shares are recomputed so they sum
// to 100.
func (r *InMemoryRepository) SetAssignees(ctx context.Context, orgID, id string, assignees []Assignee, autoDistribute bool) (*Campaign, error) {
	for i := range assignees {
		if assignees[i].Role == "" {
			assignees[i].Role = RoleMember
		}
		if !assignees[i].Role.Valid() {
			return nil, ErrInvalidRole
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.locked(orgID, id)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusArchived {
		return nil, ErrArchived
	}
	if !CanEditStructure(c.Status) {
		return nil, ErrStructureLocked
	}

	if autoDistribute || allSharesZero(assignees) {
		assignees = Distribute(assignees)
	}
	c.Assignees = append([]Assignee(nil), assignees...)
	c.UpdatedAt = time.Now().UTC()
	return c.Clone(), nil
}

// SetAssigneePercentage applies a manual share override.
func (r *InMemoryRepository) SetAssigneePercentage(ctx context.Context, orgID, id, userRef string, percentage int) (*Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.locked(orgID, id)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusArchived {
		return nil, ErrArchived
	}
	if !CanEditStructure(c.Status) {
		return nil, ErrStructureLocked
	}

	updated, err := SetPercentage(c.Assignees, userRef, percentage)
	if err != nil {
		return nil, err
	}
	c.Assignees = updated
	c.UpdatedAt = time.Now().UTC()
	return c.Clone(), nil
}

// ReplaceStats swaps in the counters recomputed by the lead store.
func (r *InMemoryRepository) ReplaceStats(ctx context.Context, orgID, id string, stats Stats) (*Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.locked(orgID, id)
	if err != nil {
		return nil, err
	}
	c.Stats = stats
	c.UpdatedAt = time.Now().UTC()
	return c.Clone(), nil
}

// Overview aggregates org-wide campaign counts.
func (r *InMemoryRepository) Overview(ctx context.Context, orgID string) (*Overview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ov := &Overview{}
	for _, c := range r.campaigns {
		if c.OrgID != orgID {
			continue
		}
		ov.Total++
		ov.TotalLeads += c.Stats.Total
		switch c.Status {
		case StatusActive:
			ov.Active++
		case StatusDraft:
			ov.Draft++
		}
	}
	return ov, nil
}

// locked looks up a campaign while the caller holds the mutex.
func (r *InMemoryRepository) locked(orgID, id string) (*Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok || c.OrgID != orgID {
		return nil, ErrNotFound
	}
	return c, nil
}

func allSharesZero(assignees []Assignee) bool {
	for _, a := range assignees {
		if a.Percentage != 0 {
			return false
		}
	}
	return true
}
