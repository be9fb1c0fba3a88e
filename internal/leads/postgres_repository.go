package leads

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wolfman30/leadflow/internal/campaigns"
)

type leadsDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore stores leads in the relational database.
type PostgresStore struct {
	db        leadsDB
	campaigns CampaignStore
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool *pgxpool.Pool, campaigns CampaignStore) *PostgresStore {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresStore{db: pool, campaigns: campaigns}
}

// NewPostgresStoreWithDB allows injecting a mock database for testing.
func NewPostgresStoreWithDB(db leadsDB, campaigns CampaignStore) *PostgresStore {
	return &PostgresStore{db: db, campaigns: campaigns}
}

// CreateBatch persists one chunk of candidates. Row-level insert
// failures are absorbed into the error count so one bad record does
// not poison its chunk.
func (s *PostgresStore) CreateBatch(ctx context.Context, orgID, campaignID string, candidates []Candidate) (*BatchResult, error) {
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
	insert := `
		INSERT INTO leads (id, campaign_id, org_id, client_name, company_name, email,
			phone, designation, location, requirements, linkedin, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	for _, c := range candidates {
		if !c.Identified() {
			result.Errors++
			continue
		}
		if _, err := s.db.Exec(ctx, insert,
			uuid.New(), campaignID, orgID, c.ClientName, c.CompanyName, c.Email,
			c.Phone, c.Designation, c.Location, c.Requirements, c.Social.LinkedIn,
			string(StatusNew),
		); err != nil {
			result.Errors++
			continue
		}
		result.Created++
	}

	stats, err := s.recount(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	refreshed, err := s.campaigns.ReplaceStats(ctx, orgID, campaignID, stats)
	if err != nil {
		return nil, err
	}
	result.Campaign = refreshed
	return result, nil
}

// ListByCampaign returns leads in insertion order.
func (s *PostgresStore) ListByCampaign(ctx context.Context, orgID, campaignID string, filter ListFilter) ([]*Lead, error) {
	query := `
		SELECT id, campaign_id, org_id, client_name, company_name, email, phone,
			designation, location, requirements, linkedin, status, created_at
		FROM leads
		WHERE campaign_id = $1 AND org_id = $2
	`
	args := []any{campaignID, orgID}
	idx := 3
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, string(filter.Status))
		idx++
	}
	query += " ORDER BY created_at, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", idx)
		args = append(args, filter.Limit)
		idx++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", idx)
		args = append(args, filter.Offset)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out := make([]*Lead, 0)
	for rows.Next() {
		var (
			l        Lead
			status   string
			linkedIn string
		)
		if err := rows.Scan(
			&l.ID, &l.CampaignID, &l.OrgID, &l.ClientName, &l.CompanyName, &l.Email,
			&l.Phone, &l.Designation, &l.Location, &l.Requirements, &linkedIn,
			&status, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		l.Status = Status(status)
		l.Social.LinkedIn = linkedIn
		out = append(out, &l)
	}
	return out, rows.Err()
}

// recount rebuilds the per-status counters from the lead table.
func (s *PostgresStore) recount(ctx context.Context, campaignID string) (campaigns.Stats, error) {
	var stats campaigns.Stats
	rows, err := s.db.Query(ctx,
		`SELECT status, COUNT(*) FROM leads WHERE campaign_id = $1 GROUP BY status`,
		campaignID)
	if err != nil {
		return stats, fmt.Errorf("leads: recount failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, fmt.Errorf("leads: recount scan failed: %w", err)
		}
		stats.Total += count
		switch Status(status) {
		case StatusNew:
			stats.New = count
		case StatusCold:
			stats.Cold = count
		case StatusWarm:
			stats.Warm = count
		case StatusQualified:
			stats.Qualified = count
		case StatusConverted:
			stats.Converted = count
		case StatusLost:
			stats.Lost = count
		}
	}
	return stats, rows.Err()
}
