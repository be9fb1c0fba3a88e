package campaigns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxDB is the slice of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type pgxDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores campaigns in the relational database.
type PostgresRepository struct {
	db pgxDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("campaigns: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db pgxDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const campaignColumns = `id, org_id, name, method, lead_category, tags, source_notes,
	expected_count, priority, status, assignment_rule, external_event_ref,
	assignees, stats, created_at, updated_at`

// Create inserts a new draft row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateRequest) (*Campaign, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	assignees, stats, err := marshalAggregates(nil, Stats{})
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO campaigns (id, org_id, name, method, lead_category, tags, source_notes,
			expected_count, priority, status, assignment_rule, external_event_ref, assignees, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.OrgID,
		strings.TrimSpace(req.Name),
		string(req.Method),
		req.LeadCategory,
		req.Tags,
		req.SourceNotes,
		req.ExpectedCount,
		string(req.Priority),
		string(StatusDraft),
		string(req.AssignmentRule),
		req.ExternalEventRef,
		assignees,
		stats,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("campaigns: insert failed: %w", err)
	}

	return &Campaign{
		ID:               id.String(),
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
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

// GetByID fetches a campaign scoped to the org.
func (r *PostgresRepository) GetByID(ctx context.Context, orgID, id string) (*Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1 AND org_id = $2`
	c, err := scanCampaign(r.db.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("campaigns: select failed: %w", err)
	}
	return c, nil
}

// List returns org campaigns, newest first, with optional filters.
func (r *PostgresRepository) List(ctx context.Context, orgID string, filter ListFilter) ([]*Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE org_id = $1`
	args := []any{orgID}
	idx := 2
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, string(filter.Status))
		idx++
	}
	if filter.Method != "" {
		query += fmt.Sprintf(" AND method = $%d", idx)
		args = append(args, string(filter.Method))
		idx++
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", idx)
		args = append(args, "%"+s+"%")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("campaigns: list failed: %w", err)
	}
	defer rows.Close()

	out := make([]*Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("campaigns: scan failed: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update applies partial edits, gating structural fields by status.
func (r *PostgresRepository) Update(ctx context.Context, orgID, id string, req *UpdateRequest) (*Campaign, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := r.GetByID(ctx, orgID, id)
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
	return r.save(ctx, c)
}

// SetStatus applies a lifecycle event.
func (r *PostgresRepository) SetStatus(ctx context.Context, orgID, id string, event Event) (*Campaign, error) {
	c, err := r.GetByID(ctx, orgID, id)
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
	return r.save(ctx, c)
}

// Duplicate copies configuration into a fresh draft row.
func (r *PostgresRepository) Duplicate(ctx context.Context, orgID, id string) (*Campaign, error) {
	src, err := r.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	dup := src.Clone()
	dup.ID = uuid.New().String()
	dup.Name = src.Name + " (copy)"
	dup.Status = StatusDraft
	dup.Stats = Stats{}

	assignees, stats, err := marshalAggregates(dup.Assignees, dup.Stats)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO campaigns (id, org_id, name, method, lead_category, tags, source_notes,
			expected_count, priority, status, assignment_rule, external_event_ref, assignees, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`
	if err := r.db.QueryRow(ctx, query,
		dup.ID, dup.OrgID, dup.Name, string(dup.Method), dup.LeadCategory, dup.Tags,
		dup.SourceNotes, dup.ExpectedCount, string(dup.Priority), string(dup.Status),
		string(dup.AssignmentRule), dup.ExternalEventRef, assignees, stats,
	).Scan(&dup.CreatedAt, &dup.UpdatedAt); err != nil {
		return nil, fmt.Errorf("campaigns: duplicate insert failed: %w", err)
	}
	return dup, nil
}

// Delete removes the campaign row.
func (r *PostgresRepository) Delete(ctx context.Context, orgID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM campaigns WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return fmt.Errorf("campaigns: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAssignees replaces the assignee list, optionally auto-distributing.
func (r *PostgresRepository) SetAssignees(ctx context.Context, orgID, id string, assignees []Assignee, autoDistribute bool) (*Campaign, error) {
	for i := range assignees {
		if assignees[i].Role == "" {
			assignees[i].Role = RoleMember
		}
		if !assignees[i].Role.Valid() {
			return nil, ErrInvalidRole
		}
	}

	c, err := r.GetByID(ctx, orgID, id)
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
	c.Assignees = assignees
	return r.save(ctx, c)
}

// SetAssigneePercentage applies a manual share override.
func (r *PostgresRepository) SetAssigneePercentage(ctx context.Context, orgID, id, userRef string, percentage int) (*Campaign, error) {
	c, err := r.GetByID(ctx, orgID, id)
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
	return r.save(ctx, c)
}

// ReplaceStats swaps in the counters recomputed by the lead store.
func (r *PostgresRepository) ReplaceStats(ctx context.Context, orgID, id string, stats Stats) (*Campaign, error) {
	c, err := r.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	c.Stats = stats
	return r.save(ctx, c)
}

// Overview aggregates org-wide campaign counts in one query.
func (r *PostgresRepository) Overview(ctx context.Context, orgID string) (*Overview, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'draft'),
			COALESCE(SUM((stats->>'total')::int), 0)
		FROM campaigns WHERE org_id = $1
	`
	ov := &Overview{}
	if err := r.db.QueryRow(ctx, query, orgID).Scan(&ov.Total, &ov.Active, &ov.Draft, &ov.TotalLeads); err != nil {
		return nil, fmt.Errorf("campaigns: overview failed: %w", err)
	}
	return ov, nil
}

// save writes every mutable column back and refreshes updated_at.
func (r *PostgresRepository) save(ctx context.Context, c *Campaign) (*Campaign, error) {
	assignees, stats, err := marshalAggregates(c.Assignees, c.Stats)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE campaigns
		SET name = $3, method = $4, lead_category = $5, tags = $6, source_notes = $7,
			expected_count = $8, priority = $9, status = $10, assignment_rule = $11,
			external_event_ref = $12, assignees = $13, stats = $14, updated_at = now()
		WHERE id = $1 AND org_id = $2
		RETURNING updated_at
	`
	if err := r.db.QueryRow(ctx, query,
		c.ID, c.OrgID, c.Name, string(c.Method), c.LeadCategory, c.Tags, c.SourceNotes,
		c.ExpectedCount, string(c.Priority), string(c.Status), string(c.AssignmentRule),
		c.ExternalEventRef, assignees, stats,
	).Scan(&c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("campaigns: update failed: %w", err)
	}
	return c, nil
}

func marshalAggregates(assignees []Assignee, stats Stats) ([]byte, []byte, error) {
	if assignees == nil {
		assignees = []Assignee{}
	}
	aj, err := json.Marshal(assignees)
	if err != nil {
		return nil, nil, fmt.Errorf("campaigns: marshal assignees: %w", err)
	}
	sj, err := json.Marshal(stats)
	if err != nil {
		return nil, nil, fmt.Errorf("campaigns: marshal stats: %w", err)
	}
	return aj, sj, nil
}

// scanCampaign reads one row regardless of whether it came from
// QueryRow or Query.
func scanCampaign(row pgx.Row) (*Campaign, error) {
	var (
		c               Campaign
		method          string
		priority        string
		status          string
		rule            string
		assigneesJSON   []byte
		statsJSON       []byte
		externalEventID *string
	)
	if err := row.Scan(
		&c.ID,
		&c.OrgID,
		&c.Name,
		&method,
		&c.LeadCategory,
		&c.Tags,
		&c.SourceNotes,
		&c.ExpectedCount,
		&priority,
		&status,
		&rule,
		&externalEventID,
		&assigneesJSON,
		&statsJSON,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Method = Method(method)
	c.Priority = Priority(priority)
	c.Status = Status(status)
	c.AssignmentRule = AssignmentRule(rule)
	c.ExternalEventRef = externalEventID
	if len(assigneesJSON) > 0 {
		if err := json.Unmarshal(assigneesJSON, &c.Assignees); err != nil {
			return nil, fmt.Errorf("campaigns: decode assignees: %w", err)
		}
	}
	if len(statsJSON) > 0 {
		if err := json.Unmarshal(statsJSON, &c.Stats); err != nil {
			return nil, fmt.Errorf("campaigns: decode stats: %w", err)
		}
	}
	return &c, nil
}
