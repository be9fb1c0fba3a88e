package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/leadflow/internal/campaigns"
)

// CampaignStore is the slice of the campaign repository the lead store
// needs: scoped lookup and the stats write-back after ingestion.
type CampaignStore interface {
	GetByID(ctx context.Context, orgID, id string) (*campaigns.Campaign, error)
	ReplaceStats(ctx context.Context, orgID, id string, stats campaigns.Stats) (*campaigns.Campaign, error)
}

// Store is the persistence boundary consumed by the import pipeline.
// CreateBatch is one batch submission: it persists what it can, counts
// the rest as errors, recomputes the campaign's per-status counters and
// returns the refreshed campaign alongside the batch counts.
type Store interface {
	CreateBatch(ctx context.Context, orgID, campaignID string, candidates []Candidate) (*BatchResult, error)
	ListByCampaign(ctx context.Context, orgID, campaignID string, filter ListFilter) ([]*Lead, error)
}

// InMemoryStore keeps leads in memory for tests and local development.
type InMemoryStore struct {
	mu        sync.RWMutex
	campaigns CampaignStore
	leads     map[string][]*Lead // keyed by campaign id
}

// NewInMemoryStore creates an empty in-memory lead store.
func NewInMemoryStore(campaigns CampaignStore) *InMemoryStore {
	return &InMemoryStore{
		campaigns: campaigns,
		leads:     make(map[string][]*Lead),
	}
}

// CreateBatch persists one chunk of candidates.
func (s *InMemoryStore) CreateBatch(ctx context.Context, orgID, campaignID string, candidates []Candidate) (*BatchResult, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyBatch
	}

	campaign, err := s.campaigns.GetByID(ctx, orgID, campaignID)
	if err != nil {
		return nil, err
	}
	if !campaigns.CanIngest(campaign.Status) {
		return nil, campaigns.ErrNotIngestible
	}

	result := &BatchResult{}
	now := time.Now().UTC()

	s.mu.Lock()
	for _, c := range candidates {
		if !c.Identified() {
			result.Errors++
			continue
		}
		s.leads[campaignID] = append(s.leads[campaignID], &Lead{
			ID:           uuid.New().String(),
			CampaignID:   campaignID,
			OrgID:        orgID,
			ClientName:   c.ClientName,
			CompanyName:  c.CompanyName,
			Email:        c.Email,
			Phone:        c.Phone,
			Designation:  c.Designation,
			Location:     c.Location,
			Requirements: c.Requirements,
			Social:       c.Social,
			Status:       StatusNew,
			CreatedAt:    now,
		})
		result.Created++
	}
	stats := s.countsLocked(campaignID)
	s.mu.Unlock()

	refreshed, err := s.campaigns.ReplaceStats(ctx, orgID, campaignID, stats)
	if err != nil {
		return nil, err
	}
	result.Campaign = refreshed
	return result, nil
}

// ListByCampaign returns leads in insertion order.
func (s *InMemoryStore) ListByCampaign(ctx context.Context, orgID, campaignID string, filter ListFilter) ([]*Lead, error) {
	if _, err := s.campaigns.GetByID(ctx, orgID, campaignID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Lead, 0)
	skipped := 0
	for _, l := range s.leads[campaignID] {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		copied := *l
		out = append(out, &copied)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// SetStatus moves one lead to a new sub-status and refreshes campaign
// counters. Used by the read-path handlers, not by the import pipeline.
func (s *InMemoryStore) SetStatus(ctx context.Context, orgID, campaignID, leadID string, status Status) (*Lead, error) {
	s.mu.Lock()
	var found *Lead
	for _, l := range s.leads[campaignID] {
		if l.ID == leadID && l.OrgID == orgID {
			l.Status = status
			copied := *l
			found = &copied
			break
		}
	}
	var stats campaigns.Stats
	if found != nil {
		stats = s.countsLocked(campaignID)
	}
	s.mu.Unlock()

	if found == nil {
		return nil, ErrLeadNotFound
	}
	if _, err := s.campaigns.ReplaceStats(ctx, orgID, campaignID, stats); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *InMemoryStore) countsLocked(campaignID string) campaigns.Stats {
	var stats campaigns.Stats
	for _, l := range s.leads[campaignID] {
		stats.Total++
		switch l.Status {
		case StatusNew:
			stats.New++
		case StatusCold:
			stats.Cold++
		case StatusWarm:
			stats.Warm++
		case StatusQualified:
			stats.Qualified++
		case StatusConverted:
			stats.Converted++
		case StatusLost:
			stats.Lost++
		}
	}
	return stats
}
