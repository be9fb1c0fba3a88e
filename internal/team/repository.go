package team

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository lists and maintains assignable team members for an org.
type Repository interface {
	List(ctx context.Context, orgID string) ([]Member, error)
	Get(ctx context.Context, orgID, id string) (*Member, error)
	Upsert(ctx context.Context, m *Member) error
	Delete(ctx context.Context, orgID, id string) error
}

type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) List(ctx context.Context, orgID string) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, org_id, display_name, email, role, territories, active, created_at, updated_at
		FROM team_members WHERE org_id = $1 AND active ORDER BY display_name ASC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.OrgID, &m.DisplayName, &m.Email, &m.Role,
			pq.Array(&m.Territories), &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if m.Territories == nil {
			m.Territories = []string{}
		}
		out = append(out, m)
	}
	if out == nil {
		out = []Member{}
	}
	return out, rows.Err()
}

func (r *SQLRepository) Get(ctx context.Context, orgID, id string) (*Member, error) {
	var m Member
	err := r.db.QueryRowContext(ctx, `
		SELECT id, org_id, display_name, email, role, territories, active, created_at, updated_at
		FROM team_members WHERE org_id = $1 AND id = $2`, orgID, id).Scan(
		&m.ID, &m.OrgID, &m.DisplayName, &m.Email, &m.Role,
		pq.Array(&m.Territories), &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if m.Territories == nil {
		m.Territories = []string{}
	}
	return &m, nil
}

func (r *SQLRepository) Upsert(ctx context.Context, m *Member) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO team_members (id, org_id, display_name, email, role, territories, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
		ON CONFLICT (id) DO UPDATE SET
		    display_name=EXCLUDED.display_name, email=EXCLUDED.email, role=EXCLUDED.role,
		    territories=EXCLUDED.territories, active=EXCLUDED.active, updated_at=$8`,
		m.ID, m.OrgID, m.DisplayName, m.Email, m.Role, pq.Array(m.Territories), m.Active, now)
	return err
}

func (r *SQLRepository) Delete(ctx context.Context, orgID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE org_id = $1 AND id = $2`, orgID, id)
	return err
}

// InMemoryRepository backs local development and tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	members map[string]*Member
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{members: make(map[string]*Member)}
}

func (r *InMemoryRepository) List(ctx context.Context, orgID string) ([]Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Member, 0)
	for _, m := range r.members {
		if m.OrgID == orgID && m.Active {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, orgID, id string) (*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	if !ok || m.OrgID != orgID {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (r *InMemoryRepository) Upsert(ctx context.Context, m *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now()
	if existing, ok := r.members[m.ID]; ok {
		m.CreatedAt = existing.CreatedAt
	} else {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	copied := *m
	r.members[m.ID] = &copied
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, orgID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[id]; ok && m.OrgID == orgID {
		delete(r.members, id)
	}
	return nil
}
